package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPtrDeref(t *testing.T) {
	p := Ptr(7)
	if *p != 7 {
		t.Fatalf("expected 7, got %d", *p)
	}
	if got := Deref(p, -1); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	var nilPtr *int
	if got := Deref(nilPtr, -1); got != -1 {
		t.Errorf("expected fallback -1, got %d", got)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "x", "y"); got != "x" {
		t.Errorf("expected x, got %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("expected zero, got %d", got)
	}
}

func TestSplitOn(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want [][]string
	}{
		{"two commands", []string{"echo", "-n", "test", "|", "wc", "-c"}, [][]string{{"echo", "-n", "test"}, {"wc", "-c"}}},
		{"no separator", []string{"echo"}, [][]string{{"echo"}}},
		{"trailing separator", []string{"echo", "|"}, [][]string{{"echo"}, {}}},
		{"empty", nil, [][]string{{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, SplitOn(tc.in, "|")); diff != "" {
				t.Errorf("SplitOn mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
