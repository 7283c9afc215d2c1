package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestBearerVerifier(t *testing.T) {
	v := NewBearerVerifier("secret")

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid", "Bearer secret", nil},
		{"wrong token", "Bearer other", ErrInvalidCredentials},
		{"missing header", "", ErrMissingCredentials},
		{"no bearer prefix", "secret", ErrMissingCredentials},
		{"empty token", "Bearer ", ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			err := v.Verify(r)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func signTestJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTVerifier(t *testing.T) {
	key := []byte("signing-key")
	v := NewJWTVerifier(JWTVerifierConfig{Issuer: "govql-test"}, key)

	valid := signTestJWT(t, key, jwt.MapClaims{
		"iss": "govql-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer "+valid)
	if err := v.Verify(r); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestJWTVerifier_Rejections(t *testing.T) {
	key := []byte("signing-key")
	v := NewJWTVerifier(JWTVerifierConfig{Issuer: "govql-test"}, key)

	expired := signTestJWT(t, key, jwt.MapClaims{
		"iss": "govql-test",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongIssuer := signTestJWT(t, key, jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signTestJWT(t, []byte("other-key"), jwt.MapClaims{
		"iss": "govql-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noExpiry := signTestJWT(t, key, jwt.MapClaims{
		"iss": "govql-test",
	})

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong issuer", wrongIssuer},
		{"wrong key", wrongKey},
		{"no expiry", noExpiry},
		{"garbage", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.Header.Set("Authorization", "Bearer "+tt.token)

			err := v.Verify(r)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Verify() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	handler := Middleware(NewBearerVerifier("secret"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Authorized request passes through.
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	// Unauthorized request is rejected before the handler.
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
	}
}
