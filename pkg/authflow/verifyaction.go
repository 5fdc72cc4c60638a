package authflow

import (
	"path"
	"strings"
)

// VerifyAction describes the step-up destination route
type VerifyAction struct {
	Prefix     string
	Controller string
	Action     string
}

// DefaultVerifyAction returns the default step-up route
func DefaultVerifyAction() VerifyAction {
	return VerifyAction{
		Controller: "Users",
		Action:     "verify",
	}
}

// URL builds the path for the step-up destination
func (a VerifyAction) URL() string {
	return path.Join("/", strings.ToLower(a.Prefix), strings.ToLower(a.Controller), a.Action)
}

// AbsoluteURL builds the absolute URL for the step-up destination
func (a VerifyAction) AbsoluteURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + a.URL()
}
