// Package device implements the remembered-device trust mechanism: a
// long-lived cookie binding a device to a user's second-factor secret.
// Presence plus an exact secret match lets a returning client skip the
// second factor.
package device
