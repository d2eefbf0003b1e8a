package process

import (
	"context"
)

// Run spawns the process described by spec and waits for it to terminate.
//
// It returns a KindTransport *SpawnError when the process cannot be spawned
// or waited on, and a KindChild *SpawnError when it terminates with a
// non-success status. Output is not captured; route spec.Stdout and
// spec.Stderr where it is needed. There are no retries.
func Run(ctx context.Context, spec Spec) error {
	return run(ctx, "run", spec)
}

func run(ctx context.Context, op string, spec Spec) error {
	program := programName(spec.Path)
	inv := begin(ctx, op, program)

	c := spec.command(inv.ctx)
	if err := c.Start(); err != nil {
		return inv.finish(transportError("spawn", program, err), nil)
	}

	waitErr := c.Wait()
	status := statusFromState(c.ProcessState)
	return inv.finish(classifyWait(inv.ctx, "wait", program, c.ProcessState, waitErr), &status)
}
