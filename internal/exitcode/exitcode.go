// Package exitcode defines the process exit codes of the taskscribe CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError covers bad arguments, unknown task ids, invalid field
	// values and requests the task service rejected.
	UserError = 1

	// AuthError indicates a missing, expired or refused credential.
	AuthError = 2

	// BackendError indicates the task service could not be reached or
	// failed, including a reload that failed after a successful change.
	BackendError = 3
)
