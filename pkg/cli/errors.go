package cli

import "errors"

// exitError pairs a command failure with the process exit code it
// should produce (spec §7): 1 for a control API the CLI could not
// reach, 2 for a verification that found mismatches, 3 for an id the
// control API does not recognize. Plain errors returned by a RunE
// closure (flag validation, and the like) fall through to exit code 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// FormatConnectionError returns a user-friendly message for a control
// API the CLI could not reach.
func FormatConnectionError(err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.ErrorCode == "connection_error" {
		return apiErr.Message + "\n\nStart the server with: pact serve, or check --admin-url."
	}
	return err.Error()
}
