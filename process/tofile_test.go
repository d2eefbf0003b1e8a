package process_test

import (
	"context"
	"testing"

	"github.com/kbukum/cmdutil/process"
)

func TestToFile_Stdout(t *testing.T) {
	requireBinaries(t, "echo")
	f, path := createFile(t, "out.txt")

	if err := process.ToFile(context.Background(), process.Spec{Path: "echo", Args: []string{"file-content-test"}}, f, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); got != "file-content-test\n" {
		t.Errorf("expected %q, got %q", "file-content-test\n", got)
	}
}

func TestToFile_Stderr(t *testing.T) {
	requireBinaries(t, "sh")
	out, outPath := createFile(t, "out.txt")
	errFile, errPath := createFile(t, "err.txt")

	spec := process.Spec{Path: "sh", Args: []string{"-c", "echo to-out; echo to-err >&2"}}
	if err := process.ToFile(context.Background(), spec, out, errFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, outPath); got != "to-out\n" {
		t.Errorf("stdout: got %q", got)
	}
	if got := readFile(t, errPath); got != "to-err\n" {
		t.Errorf("stderr: got %q", got)
	}
}

func TestToFile_ChildFailure(t *testing.T) {
	requireBinaries(t, "sh")
	f, path := createFile(t, "out.txt")

	err := process.ToFile(context.Background(), process.Spec{Path: "sh", Args: []string{"-c", "echo partial; exit 4"}}, f, nil)
	code, ok := process.ExitCode(err)
	if !ok || code != 4 {
		t.Fatalf("expected child failure with code 4, got %v", err)
	}
	if got := readFile(t, path); got != "partial\n" {
		t.Errorf("expected output written before failure, got %q", got)
	}
}

func TestToFile_LeavesFileOpen(t *testing.T) {
	requireBinaries(t, "echo")
	f, path := createFile(t, "out.txt")

	for _, word := range []string{"one", "two"} {
		if err := process.ToFile(context.Background(), process.Spec{Path: "echo", Args: []string{word}}, f, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := readFile(t, path); got != "one\ntwo\n" {
		t.Errorf("expected both runs appended, got %q", got)
	}
}
