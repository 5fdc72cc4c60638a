// Package login provides user record storage and primary credential
// matching for stepup-idm.
//
// Passwords are stored as bcrypt hashes. LoginService.FindUser is the
// find-user boundary used by the authentication flow; repositories come in
// in-memory, JSON file, and PostgreSQL flavors behind NewLoginRepository.
package login
