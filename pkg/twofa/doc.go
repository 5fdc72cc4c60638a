// Package twofa provides second-factor verification for stepup-idm.
//
// The Verifier is a pure state machine over four outcomes:
//
//   - OutcomeBypassedByRememberedDevice - a remembered device's secret
//     matched the user's secret, no code needed
//   - OutcomePendingCodeInput - no code submitted yet; redirect to step-up
//   - OutcomeVerified - the submitted code checked out
//   - OutcomeRejected - the submitted code was wrong
//
// Code checking itself sits behind the CodeVerifier interface; TotpVerifier
// is the shipped implementation using time-based one-time passwords.
package twofa
