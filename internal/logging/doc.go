// Package logging provides structured logging for the mcpconf CLI using slog.
//
// Console output goes through a colorizing text handler (or slog's JSON
// handler with --log-format json). Attribute values whose key or contents
// look like credentials are masked before they are written. A --log-file
// destination receives a JSON copy of every record at Debug and above.
//
// Verbosity maps onto levels with [LevelFromVerbosity]; -vvv enables
// [LevelTrace], which records per-key document diffs.
//
// Loggers travel through command execution via [NewContext] and
// [FromContext].
package logging
