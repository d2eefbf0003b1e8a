package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/cmdutil/observability"
)

// Pipe spawns upstream and downstream, relays upstream's stdout into
// downstream's stdin line by line, and returns the downstream's captured
// stdout, stderr and exit status.
//
// A non-success downstream exit is reported through Output.Status, not as an
// error, unless WithDownstreamCheck is given. If the downstream closes its
// stdin before the upstream is done, the relay stops, Output.Truncated is set
// and the downstream's output is still returned.
//
// Pipe returns once both processes have exited. The upstream is always
// reaped, so an upstream that closes its stdout and keeps running holds the
// call until it exits. Its status is recorded in Output.Upstream and ignored
// unless WithUpstreamCheck is given. If the downstream cannot be started the
// upstream is killed and reaped.
//
// Any Stdout preset on upstream, and any Stdin preset on downstream, is
// replaced by the pipe. A Stdout or Stderr preset on downstream is kept, and
// the corresponding Output field is left empty.
func Pipe(ctx context.Context, upstream, downstream Spec, opts ...RelayOption) (*Output, error) {
	var stdout, stderr bytes.Buffer
	if downstream.Stdout == nil {
		downstream.Stdout = &stdout
	}
	if downstream.Stderr == nil {
		downstream.Stderr = &stderr
	}

	out, err := pipe(ctx, "pipe", upstream, downstream, newRelayConfig(opts))
	if err != nil {
		return nil, err
	}
	out.Stdout = stdout.Bytes()
	out.Stderr = stderr.Bytes()
	return out, nil
}

// PipeToFile is Pipe with the downstream's stdout written to f instead of
// being captured. f belongs to the caller and is not closed. A nil f leaves
// the downstream's Stdout as configured.
func PipeToFile(ctx context.Context, upstream, downstream Spec, f *os.File, opts ...RelayOption) error {
	if f != nil {
		downstream.Stdout = f
	}
	_, err := pipe(ctx, "pipe_to_file", upstream, downstream, newRelayConfig(opts))
	return err
}

func pipe(ctx context.Context, op string, upstream, downstream Spec, cfg relayConfig) (*Output, error) {
	upName, downName := programName(upstream.Path), programName(downstream.Path)
	inv := begin(ctx, op, downName, attribute.String(observability.AttrUpstream, upName))
	ctx = inv.ctx

	up := upstream.command(ctx)
	up.Stdout = nil
	upOut, err := up.StdoutPipe()
	if err != nil {
		return nil, inv.finish(brokenPipe("pipe upstream", upName, "could not pipe command, stdout not found", err), nil)
	}
	if err := up.Start(); err != nil {
		return nil, inv.finish(transportError("spawn upstream", upName, err), nil)
	}

	down := downstream.command(ctx)
	down.Stdin = nil
	downIn, err := down.StdinPipe()
	if err != nil {
		abort(up, upOut)
		return nil, inv.finish(brokenPipe("pipe downstream", downName, "could not pipe command, stdin not found", err), nil)
	}
	if err := down.Start(); err != nil {
		_ = downIn.Close()
		abort(up, upOut)
		return nil, inv.finish(transportError("spawn downstream", downName, err), nil)
	}

	stats, relayErr := relayLines(upOut, downIn, cfg.decode, upName)
	inv.relayed(stats.lines, stats.skipped)
	// Closing stdin is the downstream's EOF.
	closeErr := downIn.Close()

	downWaitErr := down.Wait()
	if relayErr != nil {
		// Stop reading so an upstream blocked on a full pipe sees EPIPE and exits.
		_ = upOut.Close()
	}
	upWaitErr := up.Wait()

	out := &Output{
		Status:   statusFromState(down.ProcessState),
		Upstream: statusFromState(up.ProcessState),
		Lines:    stats.lines,
		Skipped:  stats.skipped,
		Duration: time.Since(inv.start),
	}
	// EPIPE on write means the downstream stopped reading; its status decides.
	if relayErr != nil && stderrors.Is(relayErr, syscall.EPIPE) {
		out.Truncated = true
		inv.truncated()
		relayErr = nil
	}

	if err := ctx.Err(); err != nil {
		return nil, inv.finish(transportError("wait downstream", downName, err), &out.Status)
	}
	var exitErr *exec.ExitError
	if downWaitErr != nil && !stderrors.As(downWaitErr, &exitErr) {
		return nil, inv.finish(brokenPipe("wait downstream", downName, "could not wait for pipe", downWaitErr), &out.Status)
	}
	if relayErr != nil {
		return nil, inv.finish(relayErr, &out.Status)
	}
	if closeErr != nil && !stderrors.Is(closeErr, os.ErrClosed) {
		return nil, inv.finish(transportError("relay", upName, closeErr), &out.Status)
	}
	if cfg.checkDownstream {
		if err := childFailure(downName, out.Status); err != nil {
			return nil, inv.finish(err, &out.Status)
		}
	}
	if cfg.checkUpstream {
		if err := classifyWait(ctx, "wait upstream", upName, up.ProcessState, upWaitErr); err != nil {
			return nil, inv.finish(err, &out.Status)
		}
	}
	return out, inv.finish(nil, &out.Status)
}

// abort kills a started upstream whose downstream never came up, and reaps it.
func abort(up *exec.Cmd, upOut io.Closer) {
	_ = up.Process.Kill()
	_ = upOut.Close()
	_ = up.Wait()
}
