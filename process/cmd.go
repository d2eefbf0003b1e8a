package process

import (
	"context"
	"io"
	"os"
)

// Cmd is a chainable builder over Spec. Its terminal methods forward to Run,
// Pipe, PipeToFile and ToFile.
type Cmd struct {
	Spec Spec
}

// Command returns a Cmd for path with the given arguments.
func Command(path string, args ...string) *Cmd {
	return &Cmd{Spec: Spec{Path: path, Args: args}}
}

// Arg appends arguments.
func (c *Cmd) Arg(args ...string) *Cmd {
	c.Spec.Args = append(c.Spec.Args, args...)
	return c
}

// Dir sets the working directory.
func (c *Cmd) Dir(dir string) *Cmd {
	c.Spec.Dir = dir
	return c
}

// Env appends key=value environment entries.
func (c *Cmd) Env(kv ...string) *Cmd {
	c.Spec.Env = append(c.Spec.Env, kv...)
	return c
}

// Stdin sets the standard input.
func (c *Cmd) Stdin(r io.Reader) *Cmd {
	c.Spec.Stdin = r
	return c
}

// Stdout sets the standard output.
func (c *Cmd) Stdout(w io.Writer) *Cmd {
	c.Spec.Stdout = w
	return c
}

// Stderr sets the standard error.
func (c *Cmd) Stderr(w io.Writer) *Cmd {
	c.Spec.Stderr = w
	return c
}

// Run is Run(ctx, c.Spec).
func (c *Cmd) Run(ctx context.Context) error {
	return Run(ctx, c.Spec)
}

// Pipe is Pipe(ctx, c.Spec, next.Spec, opts...).
func (c *Cmd) Pipe(ctx context.Context, next *Cmd, opts ...RelayOption) (*Output, error) {
	return Pipe(ctx, c.Spec, next.Spec, opts...)
}

// PipeToFile is PipeToFile(ctx, c.Spec, next.Spec, f, opts...).
func (c *Cmd) PipeToFile(ctx context.Context, next *Cmd, f *os.File, opts ...RelayOption) error {
	return PipeToFile(ctx, c.Spec, next.Spec, f, opts...)
}

// ToFile is ToFile(ctx, c.Spec, stdout, stderr).
func (c *Cmd) ToFile(ctx context.Context, stdout, stderr *os.File) error {
	return ToFile(ctx, c.Spec, stdout, stderr)
}
