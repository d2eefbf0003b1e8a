package process

import (
	"context"
	"os"
)

// ToFile runs spec with its stdout written to stdout and, when stderr is not
// nil, its stderr written to stderr. Errors are classified as in Run.
//
// The files belong to the caller: ToFile writes to them but does not close them.
func ToFile(ctx context.Context, spec Spec, stdout, stderr *os.File) error {
	if stderr != nil {
		spec.Stderr = stderr
	}
	if stdout != nil {
		spec.Stdout = stdout
	}
	return run(ctx, "tofile", spec)
}
