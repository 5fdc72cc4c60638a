package api

import "github.com/google/uuid"

// LoginRequest is the body for POST /login. Code is a pointer so an
// absent code can be told apart from an empty submitted one.
type LoginRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Code     *string `json:"code,omitempty"`
	Remember bool    `json:"remember,omitempty"`
}

// VerifyRequest is the body for POST /users/verify. Credentials come
// from the staged payload; only the code and the remember opt-in travel
// in the body.
type VerifyRequest struct {
	Code     string `json:"code"`
	Remember bool   `json:"remember,omitempty"`
}

// User is the API representation of an authenticated user
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
}

// LoginResponse is returned from login and verify endpoints
type LoginResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	User        *User  `json:"user,omitempty"`
}

const (
	statusSuccess           = "success"
	statusFailed            = "failed"
	statusTwoFactorRequired = "two_factor_required"
)
