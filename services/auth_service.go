//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/auth"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"
)

type IAuthService interface {
	Login(req auth.LoginRequest) (auth.Token, error)
	Register(req auth.RegisterRequest) (auth.Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(req auth.RegisterRequest) (auth.Token, error) {
	// Business rules first, before any expensive hashing.
	if err := auth.ValidateRegister(req); err != nil {
		if stderrors.Is(err, errors.ErrInvalidPassword) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(req.Email, req.Name, hashedPassword)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(userID, []string{"driver"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return auth.Token(token), nil
}

func (s *AuthService) Login(req auth.LoginRequest) (auth.Token, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	// Same error for unknown email and wrong password.
	user, err := s.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return auth.Token(token), nil
}
