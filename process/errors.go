package process

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"unicode/utf8"

	goerrors "github.com/kbukum/cmdutil/errors"
	"github.com/kbukum/cmdutil/util"
)

// unknownProgram stands in for a program name that is not valid UTF-8.
const unknownProgram = "unknown"

// ErrInvalidUTF8 is the cause of a KindDecode error.
var ErrInvalidUTF8 = stderrors.New("line is not valid UTF-8")

// Kind classifies a SpawnError.
type Kind int

const (
	// KindTransport is a failure of the OS process or pipe machinery:
	// spawn, wait, pipe setup or relay I/O.
	KindTransport Kind = iota + 1
	// KindChild is a process that ran and terminated with a non-success status.
	KindChild
	// KindDecode is an upstream line rejected by DecodeFail.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindChild:
		return "child"
	case KindDecode:
		return "decode"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ChildError describes a child process that terminated with a non-success status.
type ChildError struct {
	// Program is the configured executable name.
	Program string
	// Code is the exit code, nil when the child was terminated by a signal.
	Code *int
}

func (e *ChildError) Error() string {
	code := "unknown"
	if e.Code != nil {
		code = strconv.Itoa(*e.Code)
	}
	return fmt.Sprintf("program \"%s\" failed with status code %s", e.Program, code)
}

// SpawnError is the error returned by every operation in this package.
type SpawnError struct {
	Kind Kind
	// Op names the step that failed, e.g. "spawn", "wait downstream", "relay".
	Op string
	// Program is the program the step was acting on.
	Program string
	// Err is the underlying OS or decode error. Nil for KindChild.
	Err error
	// Child is set for KindChild only.
	Child *ChildError
}

func (e *SpawnError) Error() string {
	switch e.Kind {
	case KindChild:
		return "child " + e.Child.Error()
	case KindDecode:
		return fmt.Sprintf("%s %s: decode error: %v", e.Op, e.Program, e.Err)
	default:
		return fmt.Sprintf("%s %s: command IO error: %v", e.Op, e.Program, e.Err)
	}
}

// Unwrap exposes the OS error, or the *ChildError for KindChild.
func (e *SpawnError) Unwrap() error {
	if e.Kind == KindChild {
		return e.Child
	}
	return e.Err
}

func transportError(op, program string, err error) *SpawnError {
	return &SpawnError{Kind: KindTransport, Op: op, Program: program, Err: err}
}

// brokenPipe reports a pipe wiring failure. The result matches syscall.EPIPE
// under errors.Is, plus cause when there is one.
func brokenPipe(op, program, msg string, cause error) *SpawnError {
	err := fmt.Errorf("%s: %w", msg, syscall.EPIPE)
	if cause != nil {
		err = fmt.Errorf("%s: %w: %w", msg, syscall.EPIPE, cause)
	}
	return transportError(op, program, err)
}

func decodeError(op, program string, line int) *SpawnError {
	return &SpawnError{
		Kind:    KindDecode,
		Op:      op,
		Program: program,
		Err:     fmt.Errorf("line %d: %w", line, ErrInvalidUTF8),
	}
}

// childFailure returns nil for a successful status, so a SpawnError can never
// carry one.
func childFailure(program string, status ExitStatus) error {
	if status.Success {
		return nil
	}
	return &SpawnError{
		Kind:    KindChild,
		Op:      "wait",
		Program: program,
		Child:   &ChildError{Program: program, Code: status.Code},
	}
}

// classifyWait maps the result of exec.Cmd.Wait onto the error taxonomy.
// A canceled context wins over the exit status, since the kill was ours.
func classifyWait(ctx context.Context, op, program string, state *os.ProcessState, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return transportError(op, program, ctxErr)
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return childFailure(program, statusFromState(exitErr.ProcessState))
	}
	if state != nil && !state.Success() {
		return childFailure(program, statusFromState(state))
	}
	return transportError(op, program, err)
}

// programName is the name reported in errors for path.
func programName(path string) string {
	if !utf8.ValidString(path) {
		return unknownProgram
	}
	return path
}

// IsTransport reports whether err is an OS-level process failure.
func IsTransport(err error) bool {
	var se *SpawnError
	return stderrors.As(err, &se) && se.Kind == KindTransport
}

// IsChildFailure reports whether err is a child that exited unsuccessfully.
func IsChildFailure(err error) bool {
	_, ok := AsChildError(err)
	return ok
}

// AsChildError extracts the *ChildError from err.
func AsChildError(err error) (*ChildError, bool) {
	var ce *ChildError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ExitCode returns the child's exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	ce, ok := AsChildError(err)
	if !ok || ce.Code == nil {
		return 0, false
	}
	return *ce.Code, true
}

// ToAppError converts an error returned by this package into an AppError.
// Errors from elsewhere are wrapped as internal errors.
func ToAppError(err error) *goerrors.AppError {
	if err == nil {
		return nil
	}
	var se *SpawnError
	if !stderrors.As(err, &se) {
		return goerrors.Wrap(err)
	}
	switch se.Kind {
	case KindChild:
		return goerrors.ChildFailed(se.Child.Program, util.Deref(se.Child.Code, -1), se)
	case KindDecode:
		return goerrors.DecodeFailed(se).WithDetail("program", se.Program)
	}
	switch {
	case stderrors.Is(se.Err, context.DeadlineExceeded):
		return goerrors.Timeout(se.Op).WithCause(se)
	case stderrors.Is(se.Err, context.Canceled):
		return goerrors.Canceled(se.Op).WithCause(se)
	}
	return goerrors.SpawnFailed(se.Program, se).WithDetail("op", se.Op)
}
