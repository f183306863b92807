package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "Dr1ver-Passw0rd!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_InvalidHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "$bcrypt$nope")
	req.ErrorIs(err, errors.ErrInvalidHash)

	_, err = ComparePassword("whatever", "$argon2id$v=19$garbage$c2FsdA$aGFzaA")
	req.ErrorIs(err, errors.ErrInvalidHash)
}

func TestComparePassword_StoredParamsWin(t *testing.T) {
	req := require.New(t)

	// Given a hash made with cheaper parameters than the defaults
	cheap := Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	hash, err := cheap.Hash("Dr1ver-Passw0rd!")
	req.NoError(err)
	req.Contains(hash, "$m=8192,t=1,p=1$")

	// When it is compared
	match, err := ComparePassword("Dr1ver-Passw0rd!", hash)

	// Then the parameters of the hash are used
	req.NoError(err)
	req.True(match)
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"jason@example.com", "ComplexPass123!", "Jason"}, false},
		{"Invalid email", RegisterRequest{"notanemail", "ComplexPass123!", "Jason"}, true},
		{"Missing name", RegisterRequest{"jason@example.com", "ComplexPass123!", ""}, true},
		{"Password too short", RegisterRequest{"jason@example.com", "Short1!", "Jason"}, true},
		{"Missing digit", RegisterRequest{"jason@example.com", "NoDigitPass!", "Jason"}, true},
		{"Missing special char", RegisterRequest{"jason@example.com", "NoSpecialChar123", "Jason"}, true},
		{"Missing uppercase", RegisterRequest{"jason@example.com", "nouppercase123!", "Jason"}, true},
		{"Password too long", RegisterRequest{"jason@example.com", strings.Repeat("a", 73), "Jason"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate("driver-1", []string{"driver"})
	req.NoError(err)

	claims, err := tm.Validate(token)
	req.NoError(err)
	req.Equal("driver-1", claims.UserID)
	req.Equal([]string{"driver"}, claims.Roles)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }

	// Given a token that expired
	expired, err := tm.Generate("driver-1", nil)
	req.NoError(err)
	_, err = NewTokenManager("test-secret", time.Minute).Validate(expired)
	req.Error(err)

	// Given a token signed with another secret
	foreign, err := NewTokenManager("other-secret", time.Hour).Generate("driver-1", nil)
	req.NoError(err)
	_, err = NewTokenManager("test-secret", time.Hour).Validate(foreign)
	req.Error(err)
}

func TestMiddleware(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", time.Hour)
	mw := NewMiddleware(tm, "/ws", "/api/auth/login")

	var seenUser string
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// Public path passes without a token
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	req.Equal(http.StatusNoContent, rec.Code)
	req.Empty(seenUser)

	// Protected path without token is rejected
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Protected path with a valid token carries the identity
	token, err := tm.Generate("driver-7", []string{"driver"})
	req.NoError(err)
	r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusNoContent, rec.Code)
	req.Equal("driver-7", seenUser)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
