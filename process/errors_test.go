package process

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	goerrors "github.com/kbukum/cmdutil/errors"
	"github.com/kbukum/cmdutil/util"
)

func TestChildError_Message(t *testing.T) {
	tests := []struct {
		err  *ChildError
		want string
	}{
		{&ChildError{Program: "test", Code: util.Ptr(1)}, `program "test" failed with status code 1`},
		{&ChildError{Program: "sleep"}, `program "sleep" failed with status code unknown`},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func TestChildFailure_NeverWrapsSuccess(t *testing.T) {
	if err := childFailure("true", ExitStatus{Success: true, Code: util.Ptr(0)}); err != nil {
		t.Fatalf("expected nil for success status, got %v", err)
	}
	err := childFailure("false", ExitStatus{Code: util.Ptr(1)})
	var se *SpawnError
	if !errors.As(err, &se) || se.Kind != KindChild || se.Child.Program != "false" {
		t.Fatalf("expected child SpawnError, got %v", err)
	}
	if !errors.Is(err, se.Child) {
		t.Error("expected Unwrap to expose the ChildError")
	}
}

func TestBrokenPipe(t *testing.T) {
	cause := fmt.Errorf("exec: Stdout already set")
	err := brokenPipe("pipe upstream", "echo", "could not pipe command, stdout not found", cause)
	if !errors.Is(err, syscall.EPIPE) {
		t.Error("expected EPIPE in chain")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if !IsTransport(err) {
		t.Error("expected transport kind")
	}
	if !errors.Is(brokenPipe("wait downstream", "wc", "could not wait for pipe", nil), syscall.EPIPE) {
		t.Error("expected EPIPE without a cause")
	}
}

func TestClassifyWait_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := classifyWait(ctx, "wait", "sleep", nil, fmt.Errorf("signal: killed"))
	if !IsTransport(err) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled transport error, got %v", err)
	}
	if classifyWait(ctx, "wait", "sleep", nil, nil) != nil {
		t.Error("nil wait error must classify as success")
	}
}

func TestProgramName(t *testing.T) {
	if got := programName("wc"); got != "wc" {
		t.Errorf("expected wc, got %q", got)
	}
	if got := programName("bad\xffname"); got != unknownProgram {
		t.Errorf("expected %q for invalid UTF-8, got %q", unknownProgram, got)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindTransport: "transport", KindChild: "child", KindDecode: "decode", Kind(0): "kind(0)"} {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want goerrors.ErrorCode
	}{
		{"transport", transportError("spawn", "nope", fmt.Errorf("not found")), goerrors.ErrCodeSpawnFailed},
		{"child", childFailure("test", ExitStatus{Code: util.Ptr(1)}), goerrors.ErrCodeChildFailed},
		{"decode", decodeError("relay", "up", 3), goerrors.ErrCodeDecodeFailed},
		{"deadline", transportError("wait", "sleep", context.DeadlineExceeded), goerrors.ErrCodeTimeout},
		{"canceled", transportError("wait", "sleep", context.Canceled), goerrors.ErrCodeCanceled},
		{"foreign", fmt.Errorf("other"), goerrors.ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ToAppError(tc.err)
			if appErr.Code != tc.want {
				t.Errorf("expected %s, got %s", tc.want, appErr.Code)
			}
			if !errors.Is(appErr, tc.err) {
				t.Error("expected the original error in the AppError chain")
			}
		})
	}

	if ToAppError(nil) != nil {
		t.Error("ToAppError(nil) should be nil")
	}
	child := ToAppError(childFailure("test", ExitStatus{Code: util.Ptr(1)}))
	if child.Details["program"] != "test" || child.Details["code"] != 1 {
		t.Errorf("unexpected child details: %v", child.Details)
	}
}

func TestExitStatusString(t *testing.T) {
	tests := map[string]ExitStatus{
		"success":              {Success: true, Code: util.Ptr(0)},
		"exit code 3":          {Code: util.Ptr(3)},
		"terminated by signal": {},
	}
	for want, s := range tests {
		if s.String() != want {
			t.Errorf("got %q, want %q", s.String(), want)
		}
	}
}
