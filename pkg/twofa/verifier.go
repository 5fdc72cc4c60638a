package twofa

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
)

// Outcome is the result of a second-factor verification attempt
type Outcome int

const (
	// OutcomePendingCodeInput means no code was submitted yet; the client
	// should be redirected to the step-up page. Not an error.
	OutcomePendingCodeInput Outcome = iota

	// OutcomeVerified means the submitted code checked out
	OutcomeVerified

	// OutcomeRejected means the submitted code was wrong
	OutcomeRejected

	// OutcomeBypassedByRememberedDevice means a remembered device satisfied
	// the second factor without a code
	OutcomeBypassedByRememberedDevice
)

// Success reports whether the outcome satisfies the second factor
func (o Outcome) Success() bool {
	return o == OutcomeVerified || o == OutcomeBypassedByRememberedDevice
}

func (o Outcome) String() string {
	switch o {
	case OutcomePendingCodeInput:
		return "pending_code_input"
	case OutcomeVerified:
		return "verified"
	case OutcomeRejected:
		return "rejected"
	case OutcomeBypassedByRememberedDevice:
		return "bypassed_by_remembered_device"
	default:
		return "unknown"
	}
}

// CodeVerifier checks a one-time code against a user's secret
type CodeVerifier interface {
	VerifyCode(secret, code string) bool
}

// Verifier decides whether the second factor is satisfied, consulting the
// remembered-device secret first and the code verifier second
type Verifier struct {
	codes CodeVerifier
}

// NewVerifier creates a new second-factor verifier
func NewVerifier(codes CodeVerifier) (*Verifier, error) {
	if codes == nil {
		return nil, fmt.Errorf("code verifier is required")
	}
	return &Verifier{codes: codes}, nil
}

// Verify runs the second-factor state machine.
//
// codeSubmitted distinguishes "no code field in the request" (first visit to
// the step-up page) from an empty or wrong submitted code. rememberedSecret
// is the remembered-device cookie's secret, empty when absent; a match must
// be exact and case-sensitive.
func (v *Verifier) Verify(secret, code string, codeSubmitted, rememberEnabled bool, rememberedSecret string) Outcome {
	if rememberEnabled && rememberedSecret != "" && secretsEqual(rememberedSecret, secret) {
		slog.Debug("Second factor satisfied by remembered device")
		return OutcomeBypassedByRememberedDevice
	}

	if !codeSubmitted {
		return OutcomePendingCodeInput
	}

	if !v.codes.VerifyCode(secret, code) {
		slog.Info("Second factor code rejected")
		return OutcomeRejected
	}

	return OutcomeVerified
}

// secretsEqual compares secrets by value without normalization. Constant-time
// to avoid leaking the match position.
func secretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
