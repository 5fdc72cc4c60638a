// Package session provides server-side session storage keyed by a session id,
// with in-memory and Redis backends, and a Manager for the session-id cookie
// on the HTTP boundary.
package session
