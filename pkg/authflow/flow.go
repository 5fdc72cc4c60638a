package authflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stepup-idm/stepup-idm/pkg/credstage"
	"github.com/stepup-idm/stepup-idm/pkg/login"
	"github.com/stepup-idm/stepup-idm/pkg/notification"
	"github.com/stepup-idm/stepup-idm/pkg/twofa"
)

// InvalidCodeMessage is shown when a submitted one-time code does not match.
const InvalidCodeMessage = "Invalid two-step verification code."

// Status is the overall outcome of an authentication attempt.
type Status int

const (
	// StatusRejected means the primary credentials did not match any user.
	StatusRejected Status = iota
	// StatusStepUpRequired means primary credentials matched but a
	// one-time code still has to be submitted (or resubmitted).
	StatusStepUpRequired
	// StatusAuthenticated means the attempt fully succeeded.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusStepUpRequired:
		return "step_up_required"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// UserFinder resolves primary credentials to a user record.
type UserFinder interface {
	FindUser(ctx context.Context, username, password string) (login.User, bool)
}

// Request carries one authentication attempt. Credentials may be empty
// when the attempt is a code-only submission that relies on previously
// staged credentials. CodeSubmitted distinguishes an absent code from
// an empty submitted one.
type Request struct {
	SessionID        string
	Username         string
	Password         string
	Code             string
	CodeSubmitted    bool
	Remember         bool
	RememberedSecret string
}

// Result is the outcome of an authentication attempt. RedirectURL and
// Message are set on step-up outcomes; RememberSecret is set when the
// caller should persist a remembered-device cookie.
type Result struct {
	Status         Status
	User           login.User
	RedirectURL    string
	Message        string
	RememberSecret string
}

// FlowOption customizes a Flow.
type FlowOption func(*Flow)

// WithRememberEnabled toggles the remember-this-device feature.
func WithRememberEnabled(enabled bool) FlowOption {
	return func(f *Flow) {
		f.rememberEnabled = enabled
	}
}

// WithVerifyAction overrides the step-up destination route.
func WithVerifyAction(action VerifyAction) FlowOption {
	return func(f *Flow) {
		f.verifyAction = action
	}
}

// WithBaseURL makes the step-up redirect absolute against the given base.
func WithBaseURL(baseURL string) FlowOption {
	return func(f *Flow) {
		f.baseURL = baseURL
	}
}

// WithNotifier enables best-effort user notifications.
func WithNotifier(notifier notification.Notifier) FlowOption {
	return func(f *Flow) {
		f.notifier = notifier
	}
}

// Flow orchestrates the two-step authentication sequence: primary
// credential check, credential staging across the code round-trip,
// one-time code verification and the remembered-device bypass.
type Flow struct {
	users           UserFinder
	staging         *credstage.Service
	verifier        *twofa.Verifier
	rememberEnabled bool
	verifyAction    VerifyAction
	baseURL         string
	verifyURL       string
	notifier        notification.Notifier
}

// NewFlow wires a Flow from its collaborators. All three are required.
func NewFlow(users UserFinder, staging *credstage.Service, verifier *twofa.Verifier, options ...FlowOption) (*Flow, error) {
	if users == nil {
		return nil, fmt.Errorf("user finder is required")
	}
	if staging == nil {
		return nil, fmt.Errorf("credential staging service is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("two-factor verifier is required")
	}
	flow := &Flow{
		users:        users,
		staging:      staging,
		verifier:     verifier,
		verifyAction: DefaultVerifyAction(),
	}
	for _, option := range options {
		option(flow)
	}
	if flow.baseURL != "" {
		flow.verifyURL = flow.verifyAction.AbsoluteURL(flow.baseURL)
	} else {
		flow.verifyURL = flow.verifyAction.URL()
	}
	return flow, nil
}

// Authenticate runs one authentication attempt. Soft failures (bad
// credentials, missing or wrong code) come back as Result values; the
// error covers collaborator failures such as the session store being
// unreachable.
func (f *Flow) Authenticate(ctx context.Context, req Request) (Result, error) {
	creds, ok := f.resolveCredentials(ctx, req)
	if !ok {
		return Result{Status: StatusRejected}, nil
	}

	user, found := f.users.FindUser(ctx, creds.Username, creds.Password)
	if !found {
		slog.Info("Primary credential check failed", "username", creds.Username)
		return Result{Status: StatusRejected}, nil
	}

	if user.Secret == "" {
		// No second factor configured for this user.
		if err := f.staging.Clear(ctx, req.SessionID); err != nil {
			return Result{}, fmt.Errorf("failed to clear staged credentials: %w", err)
		}
		return Result{Status: StatusAuthenticated, User: user.StripSecret()}, nil
	}

	// Refresh the staged payload on every attempt so a code-only
	// resubmission keeps working across the round-trip.
	if err := f.staging.Stage(ctx, req.SessionID, creds); err != nil {
		return Result{}, fmt.Errorf("failed to stage credentials: %w", err)
	}

	outcome := f.verifier.Verify(user.Secret, req.Code, req.CodeSubmitted, f.rememberEnabled, req.RememberedSecret)
	switch outcome {
	case twofa.OutcomeVerified, twofa.OutcomeBypassedByRememberedDevice:
		result := Result{Status: StatusAuthenticated, User: user.StripSecret()}
		if f.rememberEnabled && req.Remember {
			// A bypassed login re-issues the cookie too, refreshing its
			// expiry. The security notice only goes out for a verified
			// code: a bypass means the device was already remembered.
			result.RememberSecret = user.Secret
			if outcome == twofa.OutcomeVerified {
				f.notifyDeviceRemembered(user)
			}
		}
		if err := f.staging.Clear(ctx, req.SessionID); err != nil {
			return Result{}, fmt.Errorf("failed to clear staged credentials: %w", err)
		}
		slog.Info("Authentication succeeded", "username", user.Username, "outcome", outcome.String())
		return result, nil
	case twofa.OutcomeRejected:
		slog.Info("One-time code rejected", "username", user.Username)
		return Result{Status: StatusStepUpRequired, RedirectURL: f.verifyURL, Message: InvalidCodeMessage}, nil
	default:
		return Result{Status: StatusStepUpRequired, RedirectURL: f.verifyURL}, nil
	}
}

// resolveCredentials takes each credential field from the request body
// when present, falling back to the staged value per field.
func (f *Flow) resolveCredentials(ctx context.Context, req Request) (credstage.Credentials, bool) {
	creds := credstage.Credentials{
		Username: req.Username,
		Password: req.Password,
	}
	if creds.Username != "" && creds.Password != "" {
		return creds, true
	}

	staged, ok := f.staging.Unstage(ctx, req.SessionID)
	if creds.Username == "" {
		if !ok || staged.Username == "" {
			return credstage.Credentials{}, false
		}
		creds.Username = staged.Username
	}
	if creds.Password == "" {
		if !ok || staged.Password == "" {
			return credstage.Credentials{}, false
		}
		creds.Password = staged.Password
	}
	return creds, true
}

func (f *Flow) notifyDeviceRemembered(user login.User) {
	if f.notifier == nil || user.Email == "" {
		return
	}
	err := f.notifier.Send(notification.NewDeviceRememberedNotice, notification.NotificationData{
		To: user.Email,
		Data: map[string]string{
			"Username": user.Username,
		},
	})
	if err != nil {
		slog.Warn("Failed to send device remembered notice", "username", user.Username, "err", err)
	}
}
