package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for inbound authentication.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Verifier validates the credentials on an inbound HTTP request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: returns nil for an authenticated request; ErrMissingCredentials
//   or ErrInvalidCredentials (possibly wrapped) otherwise.
type Verifier interface {
	Verify(r *http.Request) error
}

// BearerVerifier checks the Authorization header against a fixed token
// using a constant-time comparison.
type BearerVerifier struct {
	token string
}

// NewBearerVerifier creates a verifier for a fixed bearer token.
func NewBearerVerifier(token string) *BearerVerifier {
	return &BearerVerifier{token: token}
}

// Verify checks the bearer token on the request.
func (v *BearerVerifier) Verify(r *http.Request) error {
	presented, err := bearerToken(r)
	if err != nil {
		return err
	}
	if !constantTimeCompare(presented, v.token) {
		return ErrInvalidCredentials
	}
	return nil
}

// JWTVerifierConfig configures JWT verification.
type JWTVerifierConfig struct {
	// Issuer is the expected token issuer (iss claim). Empty skips the check.
	Issuer string

	// Audience is the expected token audience (aud claim). Empty skips the check.
	Audience string
}

// JWTVerifier validates HMAC-signed JWTs on inbound requests.
type JWTVerifier struct {
	config JWTVerifierConfig
	key    []byte
}

// NewJWTVerifier creates a verifier with a static HMAC signing key.
func NewJWTVerifier(config JWTVerifierConfig, key []byte) *JWTVerifier {
	return &JWTVerifier{config: config, key: key}
}

// Verify parses and validates the JWT on the request.
func (v *JWTVerifier) Verify(r *http.Request) error {
	tokenString, err := bearerToken(r)
	if err != nil {
		return err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	_, err = jwt.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return errors.Join(ErrInvalidCredentials, err)
	}
	return nil
}

// Middleware wraps next with inbound credential verification. Requests
// failing verification receive 401 without reaching next.
func Middleware(verifier Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := verifier.Verify(r); err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingCredentials
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", ErrMissingCredentials
	}
	return strings.TrimSpace(token), nil
}

func constantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Ensure verifiers implement Verifier
var (
	_ Verifier = (*BearerVerifier)(nil)
	_ Verifier = (*JWTVerifier)(nil)
)
