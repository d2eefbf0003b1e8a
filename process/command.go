package process

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Spec describes a process to spawn. It is owned by the caller and may be
// changed freely until it is passed to an operation.
type Spec struct {
	// Path is the executable path or name (resolved via PATH).
	Path string `mapstructure:"path" validate:"required"`
	// Args are the command-line arguments, not including the program name.
	Args []string `mapstructure:"args"`
	// Dir is the working directory. If empty, uses the current directory.
	Dir string `mapstructure:"dir"`
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string `mapstructure:"env"`
	// Stdin, Stdout and Stderr follow os/exec: nil means the null device.
	Stdin  io.Reader `mapstructure:"-" validate:"-"`
	Stdout io.Writer `mapstructure:"-" validate:"-"`
	Stderr io.Writer `mapstructure:"-" validate:"-"`
}

func (s Spec) command(ctx context.Context) *exec.Cmd {
	c := exec.CommandContext(ctx, s.Path, s.Args...) //nolint:gosec // running caller-supplied programs is the point
	c.Dir = s.Dir
	c.Env = mergeEnv(s.Env)
	c.Stdin = s.Stdin
	c.Stdout = s.Stdout
	c.Stderr = s.Stderr
	return c
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
