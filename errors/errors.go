package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrOrderNotFound      = fmt.Errorf("order not found")
	ErrSignatureNotFound  = fmt.Errorf("signature not found")
	ErrInvalidTransition  = fmt.Errorf("order status transition not allowed")
	ErrInvalidStatus      = fmt.Errorf("invalid order status")
	ErrInvalidSignature   = fmt.Errorf("signature must be a png or jpeg image")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrContentTooLong     = fmt.Errorf("content exceeds maximum length")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrInvalidHash        = fmt.Errorf("invalid hash format")
)
