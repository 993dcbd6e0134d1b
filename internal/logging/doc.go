// Package logging builds the zap logger used for diagnostics.
//
// Diagnostics go to stderr so stdout carries only command results. Every
// invocation is tagged with a run_id, and helpers keep field names
// consistent across packages:
//
//	logger = logger.With(logging.RunID(id), logging.Command("user add"))
//	logger.Info("user created", logging.Username("alice"))
//
// Passwords are never logged; use SanitizePassword when a log line needs
// to say whether one was given.
package logging
