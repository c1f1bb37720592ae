// Package errors provides error handling conventions for the mcpconf CLI.
//
// It re-exports the wrapping helpers from github.com/cockroachdb/errors so the
// rest of the module imports a single errors package, defines the sentinel
// errors of the configuration engine, and provides an ExitError type for CLI
// exit code handling.
//
// # Sentinel Errors
//
// Callers check for specific failure conditions using [Is]:
//
//	if errors.Is(err, errors.ErrOwnership) {
//	    // the entry belongs to another tool
//	}
//
//   - [ErrNotFound]: the instance name is absent from the servers section
//   - [ErrOwnership]: the entry exists but was not created by mcpconf
//   - [ErrNormalization]: the instance name reduces to nothing
//   - [ErrMalformedDocument]: an existing config file failed to decode
//
// Errors from lower layers are attached to a sentinel with [Mark], which keeps
// the original message while making [Is] match the sentinel.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, ownership, bad JSON)
//   - ExitSystem (2): System-related error (I/O, permissions)
//
// [Classify] maps any error onto an [ExitError] with the matching code.
package errors
