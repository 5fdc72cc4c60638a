package token

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stepup-idm/stepup-idm/pkg/login"
)

const (
	// AccessTokenName is the cookie name for the issued access token
	AccessTokenName = "access_token"

	// DefaultAccessTokenExpiry is the default access token lifetime
	DefaultAccessTokenExpiry = 15 * time.Minute

	defaultIssuer = "stepup-idm"
)

// Service issues JWT access tokens for authenticated identities and writes
// them to a cookie
type Service struct {
	secret       []byte
	issuer       string
	expiry       time.Duration
	cookieSecure bool
}

// ServiceOption is a function that configures a Service
type ServiceOption func(*Service)

// WithExpiry sets the access token expiry duration
func WithExpiry(expiry time.Duration) ServiceOption {
	return func(s *Service) {
		s.expiry = expiry
	}
}

// WithIssuer sets the token issuer claim
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithSecureCookie sets the secure flag on the access token cookie
func WithSecureCookie(secure bool) ServiceOption {
	return func(s *Service) {
		s.cookieSecure = secure
	}
}

// NewService creates a new token service signing with the given HMAC secret
func NewService(secret string, options ...ServiceOption) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret cannot be empty")
	}

	s := &Service{
		secret: []byte(secret),
		issuer: defaultIssuer,
		expiry: DefaultAccessTokenExpiry,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// GenerateAccessToken creates a signed access token for the user
func (s *Service) GenerateAccessToken(user login.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iss":      s.issuer,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenStr, expiresAt, nil
}

// ParseAccessToken validates a signed access token and returns its claims
func (s *Service) ParseAccessToken(tokenStr string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

// SetTokenCookie writes the access token cookie onto the response
func (s *Service) SetTokenCookie(w http.ResponseWriter, tokenStr string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenName,
		Value:    tokenStr,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
