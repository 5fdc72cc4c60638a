package twofa

import (
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/xlzd/gotp"
)

const (
	DefaultTotpPeriod = 30
	DefaultTotpSkew   = 1

	totpSecretLength = 32
)

// TotpVerifier implements CodeVerifier using time-based one-time passwords
type TotpVerifier struct {
	period uint
	skew   uint
}

// NewTotpVerifier creates a TOTP code verifier with the default period and skew
func NewTotpVerifier() *TotpVerifier {
	return &TotpVerifier{
		period: DefaultTotpPeriod,
		skew:   DefaultTotpSkew,
	}
}

// NewTotpVerifierWithPeriod creates a TOTP code verifier with a custom code
// validity period in seconds
func NewTotpVerifierWithPeriod(period uint) *TotpVerifier {
	if period == 0 {
		period = DefaultTotpPeriod
	}
	return &TotpVerifier{
		period: period,
		skew:   DefaultTotpSkew,
	}
}

// VerifyCode checks a passcode against the user's TOTP secret
func (v *TotpVerifier) VerifyCode(secret, code string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    v.period,
		Skew:      v.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		slog.Error("Failed to validate totp passcode", "error", err)
		return false
	}
	return valid
}

// GeneratePasscode produces the passcode for a secret at the current time
func (v *TotpVerifier) GeneratePasscode(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    v.period,
		Skew:      v.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		slog.Error("Failed to generate totp passcode", "error", err)
		return "", err
	}
	return code, nil
}

// GenerateTotpSecret returns a new random base32 TOTP secret
func GenerateTotpSecret() string {
	return gotp.RandomSecret(totpSecretLength)
}
