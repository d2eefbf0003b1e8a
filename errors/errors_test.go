package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	if !New(ErrCodeTimeout, "timed out").Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeChildFailed, "failed").Retryable {
		t.Error("CHILD_FAILED should not be retryable")
	}
}

func TestAppError_SpawnFailed(t *testing.T) {
	cause := fmt.Errorf("exec: not found")
	err := SpawnFailed("nope", cause)
	if err.Code != ErrCodeSpawnFailed {
		t.Errorf("expected SPAWN_FAILED, got %s", err.Code)
	}
	if err.Details["program"] != "nope" {
		t.Errorf("expected program=nope, got %v", err.Details["program"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
}

func TestAppError_ChildFailed_Code(t *testing.T) {
	err := ChildFailed("test", 1, nil)
	if err.Details["code"] != 1 {
		t.Errorf("expected code=1, got %v", err.Details["code"])
	}

	unknown := ChildFailed("sleep", -1, nil)
	if _, ok := unknown.Details["code"]; ok {
		t.Error("expected no code detail for unknown exit code")
	}
}

func TestAppError_InvalidInput(t *testing.T) {
	err := InvalidInput("path", "must not be empty")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "path" {
		t.Errorf("expected field=path, got %v", err.Details["field"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Validation("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := SpawnFailed("echo", nil).WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["program"] != "echo" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	orig := InvalidInput("path", "must not be empty")
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("Wrap should unwrap to the original AppError")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestAsAppError(t *testing.T) {
	var err error = Canceled("pipe")
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != ErrCodeCanceled {
		t.Fatalf("expected CANCELED AppError, got %v", err)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not be an AppError")
	}
}
