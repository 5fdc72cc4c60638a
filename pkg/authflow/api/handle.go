package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/stepup-idm/stepup-idm/pkg/authflow"
	"github.com/stepup-idm/stepup-idm/pkg/credstage"
	"github.com/stepup-idm/stepup-idm/pkg/device"
	"github.com/stepup-idm/stepup-idm/pkg/session"
	"github.com/stepup-idm/stepup-idm/pkg/token"
)

// Handle adapts the authentication flow to HTTP: it owns the session
// cookie, the remembered-device cookie and access token issuance.
type Handle struct {
	flow     *authflow.Flow
	staging  *credstage.Service
	sessions *session.Manager
	flashes  *session.Flash
	devices  *device.Store
	tokens   *token.Service
}

func NewHandle(flow *authflow.Flow, staging *credstage.Service, sessions *session.Manager, flashes *session.Flash, devices *device.Store, tokens *token.Service) Handle {
	return Handle{
		flow:     flow,
		staging:  staging,
		sessions: sessions,
		flashes:  flashes,
		devices:  devices,
		tokens:   tokens,
	}
}

// Routes registers the login and step-up endpoints
func (h Handle) Routes(r chi.Router) {
	r.Post("/login", h.PostLogin)
	r.Route("/users", func(r chi.Router) {
		r.Get("/verify", h.GetVerify)
		r.Post("/verify", h.PostVerify)
	})
}

// Login a user
// (POST /login)
func (h Handle) PostLogin(w http.ResponseWriter, r *http.Request) {
	data := LoginRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "Unable to parse request body"})
		return
	}

	req := authflow.Request{
		Username: data.Username,
		Password: data.Password,
		Remember: data.Remember,
	}
	if data.Code != nil {
		req.Code = *data.Code
		req.CodeSubmitted = true
	}
	h.authenticate(w, r, req)
}

// Submit the one-time code for a pending login
// (POST /users/verify)
func (h Handle) PostVerify(w http.ResponseWriter, r *http.Request) {
	data := VerifyRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "Unable to parse request body"})
		return
	}

	h.authenticate(w, r, authflow.Request{
		Code:          data.Code,
		CodeSubmitted: true,
		Remember:      data.Remember,
	})
}

// Report whether a login is waiting on its one-time code
// (GET /users/verify)
func (h Handle) GetVerify(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.SessionID(r)
	if sessionID == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "No login in progress"})
		return
	}
	if _, pending := h.staging.Unstage(r.Context(), sessionID); !pending {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "No login in progress"})
		return
	}

	// Any flash left by a rejected code rides along and is consumed here.
	message, _ := h.flashes.Pop(r.Context(), sessionID)
	render.JSON(w, r, LoginResponse{
		Status:  statusTwoFactorRequired,
		Message: message,
	})
}

func (h Handle) authenticate(w http.ResponseWriter, r *http.Request, req authflow.Request) {
	req.SessionID = h.sessions.EnsureSessionID(w, r)
	if secret, ok := h.devices.ReadSecret(r); ok {
		req.RememberedSecret = secret
	}

	result, err := h.flow.Authenticate(r.Context(), req)
	if err != nil {
		slog.Error("Authentication attempt failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "Internal error"})
		return
	}

	switch result.Status {
	case authflow.StatusAuthenticated:
		if result.RememberSecret != "" {
			if err := h.devices.RememberSecret(w, result.RememberSecret); err != nil {
				slog.Error("Failed to set remembered device cookie", "err", err)
			}
		}

		tokenStr, expiresAt, err := h.tokens.GenerateAccessToken(result.User)
		if err != nil {
			slog.Error("Failed to create access token", "username", result.User.Username, "err", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "Failed to create access token"})
			return
		}
		h.tokens.SetTokenCookie(w, tokenStr, expiresAt)

		response := LoginResponse{Status: statusSuccess, Message: "Login successful", User: &User{}}
		copier.Copy(response.User, &result.User)
		render.JSON(w, r, response)

	case authflow.StatusStepUpRequired:
		if result.Message != "" {
			if err := h.flashes.Set(r.Context(), req.SessionID, result.Message); err != nil {
				slog.Warn("Failed to store flash message", "err", err)
			}
		}
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, LoginResponse{
			Status:      statusTwoFactorRequired,
			Message:     result.Message,
			RedirectURL: result.RedirectURL,
		})

	default:
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, LoginResponse{Status: statusFailed, Message: "Username/Password is wrong"})
	}
}
