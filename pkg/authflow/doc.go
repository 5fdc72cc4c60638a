// Package authflow orchestrates the two-step authentication sequence.
//
// A Flow resolves primary credentials (from the request body, falling
// back per field to the staged payload), checks them against the user
// store, stages them for the code round-trip, and runs the second
// factor through a twofa.Verifier. The Result tells the caller what to
// do next: issue the authenticated session, redirect to the step-up
// page, or reject the attempt.
//
// The Flow itself never touches HTTP; the api subpackage adapts it to
// chi handlers, cookies and redirects.
package authflow
