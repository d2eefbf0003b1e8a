package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Process errors
const (
	// ErrCodeSpawnFailed indicates the OS could not create, wait on, or pipe a process.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	// ErrCodeChildFailed indicates a child process ran and exited with a non-success status.
	ErrCodeChildFailed ErrorCode = "CHILD_FAILED"
	// ErrCodeDecodeFailed indicates relayed output could not be decoded as text.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)

// Availability errors (retryable)
const (
	// ErrCodeTimeout indicates the operation ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the operation was canceled by its caller.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// ErrCodeInvalidInput indicates the input is invalid.
const ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

// ErrCodeInternal indicates an unexpected internal error.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:  true,
	ErrCodeCanceled: false,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
