// Package config provides configuration structs for stepup-idm components.
//
// Each concern gets its own config struct with a Default*Config() constructor
// and an optional New*ConfigFromEnv() loader using standard environment
// variable names. Durations accept both ISO 8601 ("P30D", "PT2H") and Go
// ("720h", "2h") formats.
package config
