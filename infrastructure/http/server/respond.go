package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return stderrors.Join(errors.ErrInvalidPayload, err)
	}
	return nil
}

// writeError maps domain errors to HTTP statuses. Unknown errors are
// logged and hidden behind a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrInvalidPayload),
		stderrors.Is(err, errors.ErrInvalidPassword),
		stderrors.Is(err, errors.ErrInvalidStatus),
		stderrors.Is(err, errors.ErrInvalidSignature):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrContentTooLong):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, errors.ErrInvalidCredentials),
		stderrors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrOrderNotFound),
		stderrors.Is(err, errors.ErrSignatureNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrUserAlreadyExists),
		stderrors.Is(err, errors.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
