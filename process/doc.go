// Package process runs child processes through os/exec with a small, typed
// error surface.
//
// Three operations make up the package:
//
//   - Run spawns one process, waits for it and reports a non-success exit as a
//     *ChildError wrapped in a *SpawnError.
//   - Pipe and PipeToFile spawn two processes and relay the upstream's stdout
//     into the downstream's stdin line by line.
//   - ToFile redirects a process's stdout (and optionally stderr) to files.
//
// Every error returned is a *SpawnError whose Kind tells OS-level failures
// (KindTransport) apart from children that ran and failed (KindChild).
//
// Pipe orchestrates on the calling goroutine: it reads a line from the
// upstream and writes it to the downstream before reading the next. Captured
// downstream output is drained by os/exec in the background, so a chatty
// downstream cannot stall the relay, but the relay is not binary safe: input
// is split on '\n', a trailing "\r\n" becomes "\n", and a missing final newline
// is added.
//
// Command offers the same operations as chainable methods:
//
//	out, err := process.Command("echo", "-n", "test").
//		Pipe(ctx, process.Command("wc", "-c"))
package process
