package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

var ErrBadToken = errors.New("invalid token")
var ErrMissingToken = errors.New("missing bearer token")

// TokenValidator verifies HS256 tokens signed with a shared secret. An empty secret disables
// verification entirely.
type TokenValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) TokenValidator {
	return TokenValidator{secret: []byte(secret)}
}

func (v TokenValidator) Enabled() bool {
	return len(v.secret) > 0
}

// IssueToken signs a token for subject valid for ttl.
func (v TokenValidator) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v TokenValidator) Validate(raw string) (*jwt.RegisteredClaims, error) {
	tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(ErrBadToken, err)
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// RequireForWrites rejects POST, PUT and DELETE requests without a valid bearer token. Other
// methods pass through so the route can answer them, and so does everything when the validator
// has no secret.
func RequireForWrites(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Enabled() || !isWrite(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			raw, err := bearerToken(r)
			if err != nil {
				log.Debugf("rejecting %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			claims, err := v.Validate(raw)
			if err != nil {
				log.Debugf("rejecting %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			log.Tracef("authorized %s for %s %s", claims.Subject, r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete
}
