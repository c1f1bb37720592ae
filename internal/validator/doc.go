// Package validator collects structural problems found in host config
// files.
//
// Checks never fail on the first problem: each one becomes an [Issue] in a
// [Result], and only I/O or parse failures are returned as errors. A
// [Reporter] renders a Result as colored text or JSON.
//
//	result := &validator.Result{Path: path}
//	result.AddError("github", "command", "is required", nil)
//	if result.HasErrors() {
//		// exit non-zero
//	}
package validator
