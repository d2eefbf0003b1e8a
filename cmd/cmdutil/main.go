// cmdutil runs a program, pipes one program into another, or redirects a
// program's output to files, reporting failures the way the process package
// classifies them.
//
//	cmdutil run -- test -n ""
//	cmdutil tofile --stdout out.txt -- echo hello
//	cmdutil pipe -- echo -n test '|' wc -c
//
// The exit code of a failed child is propagated.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/cmdutil/config"
	goerrors "github.com/kbukum/cmdutil/errors"
	"github.com/kbukum/cmdutil/logger"
	"github.com/kbukum/cmdutil/observability"
	"github.com/kbukum/cmdutil/process"
	"github.com/kbukum/cmdutil/util"
	"github.com/kbukum/cmdutil/version"
)

const (
	exitFailure = 1
	exitUsage   = 2
	pipeToken   = "|"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	stop()
	os.Exit(code)
}

// stdio are the streams children inherit.
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// usageError is a command-line mistake. It exits with exitUsage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type globalOptions struct {
	configFile string
	envFile    string
	logLevel   string
}

func run(ctx context.Context, args []string, std stdio) int {
	err := dispatch(ctx, args, std)
	if err == nil {
		return 0
	}
	return report(std.err, err)
}

// report prints err and returns the exit code for it.
func report(w io.Writer, err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(w, "cmdutil: %v\nRun 'cmdutil --help' for usage.\n", usage)
		return exitUsage
	}

	var spawnErr *process.SpawnError
	if !errors.As(err, &spawnErr) {
		if appErr, ok := goerrors.AsAppError(err); ok {
			fmt.Fprintf(w, "cmdutil: %s\n", appErr.Message)
		} else {
			fmt.Fprintf(w, "cmdutil: %v\n", err)
		}
		return exitFailure
	}

	appErr := process.ToAppError(err)
	fmt.Fprintf(w, "cmdutil: %v\n", err)
	logger.Get("cli").Debug("command failed", logger.MergeWithError(logger.Fields(
		"code", string(appErr.Code),
		"retryable", appErr.Retryable,
	), err))
	if code, ok := process.ExitCode(err); ok && code > 0 {
		return code
	}
	return exitFailure
}

func dispatch(ctx context.Context, args []string, std stdio) error {
	var opts globalOptions
	flagSet := pflag.NewFlagSet("cmdutil", pflag.ContinueOnError)
	flagSet.SetOutput(std.err)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&opts.configFile, "config", "", "path to a YAML config file (default: search for cmdutil.yml)")
	flagSet.StringVar(&opts.envFile, "env-file", "", "path to a .env file (default: search for .env)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(std.err, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usagef("%v", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(std.out, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return usagef("missing command")
	}
	name, rest := rest[0], rest[1:]

	if name == "version" {
		fmt.Fprintf(std.out, "cmdutil %s\n", version.Get())
		return nil
	}

	command, ok := commands[name]
	if !ok {
		return usagef("unknown command %q", name)
	}

	app, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer app.shutdown()

	return command(ctx, app, rest, std)
}

// app is what a subcommand needs once configuration is loaded.
type app struct {
	cfg      *config.ServiceConfig
	adapter  *process.Adapter
	shutdown func()
}

func setup(ctx context.Context, opts globalOptions) (*app, error) {
	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, usagef("%v", err)
		}
	}
	logger.Init(cfg.Logging)

	adapter, err := process.NewAdapter(cfg.Process)
	if err != nil {
		return nil, err
	}

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, cfg.Name, util.Coalesce(cfg.Version, version.Get().Version))
	if err != nil {
		return nil, err
	}

	log := logger.Get("cli")
	log.Debug("configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"telemetry", cfg.Observability.Enabled,
		"decode", cfg.Process.Decode,
	))

	return &app{
		cfg:     cfg,
		adapter: adapter,
		shutdown: func() {
			// ctx may already be canceled by a signal; spans still need flushing.
			if err := shutdownTelemetry(context.WithoutCancel(ctx)); err != nil {
				log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
			}
		},
	}, nil
}

var commands = map[string]func(ctx context.Context, a *app, args []string, std stdio) error{
	"run":    runCommand,
	"tofile": toFileCommand,
	"pipe":   pipeCommand,
}

func newFlagSet(name string, std stdio) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("cmdutil "+name, pflag.ContinueOnError)
	flagSet.SetOutput(std.err)
	flagSet.SetInterspersed(false)
	return flagSet
}

// specFrom builds a Spec from a program and its arguments.
func specFrom(argv []string) (process.Spec, error) {
	if len(argv) == 0 || argv[0] == "" {
		return process.Spec{}, usagef("missing program")
	}
	return process.Spec{Path: argv[0], Args: argv[1:]}, nil
}

func runCommand(ctx context.Context, a *app, args []string, std stdio) error {
	flagSet := newFlagSet("run", std)
	if err := flagSet.Parse(args); err != nil {
		return usagef("%v", err)
	}
	spec, err := specFrom(flagSet.Args())
	if err != nil {
		return err
	}
	spec.Stdin, spec.Stdout, spec.Stderr = std.in, std.out, std.err
	return a.adapter.Run(ctx, spec)
}

func toFileCommand(ctx context.Context, a *app, args []string, std stdio) error {
	var stdoutPath, stderrPath string
	flagSet := newFlagSet("tofile", std)
	flagSet.StringVar(&stdoutPath, "stdout", "", "file receiving the program's standard output (required)")
	flagSet.StringVar(&stderrPath, "stderr", "", "file receiving the program's standard error")
	if err := flagSet.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if stdoutPath == "" {
		return usagef("tofile: --stdout is required")
	}
	spec, err := specFrom(flagSet.Args())
	if err != nil {
		return err
	}
	spec.Stdin = std.in

	stdout, err := os.Create(stdoutPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", stdoutPath, err)
	}
	defer stdout.Close()

	var stderr *os.File
	if stderrPath != "" {
		stderr, err = os.Create(stderrPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", stderrPath, err)
		}
		defer stderr.Close()
	} else {
		spec.Stderr = std.err
	}

	return a.adapter.ToFile(ctx, spec, stdout, stderr)
}

func pipeCommand(ctx context.Context, a *app, args []string, std stdio) error {
	var outPath, decode string
	var checkUpstream, checkDownstream bool
	flagSet := newFlagSet("pipe", std)
	flagSet.StringVar(&outPath, "out", "", "file receiving the downstream program's output (default: stdout)")
	flagSet.StringVar(&decode, "decode", "", "handling of non UTF-8 lines: skip, fail or passthrough")
	flagSet.BoolVar(&checkUpstream, "check-upstream", false, "fail when the upstream program fails")
	flagSet.BoolVar(&checkDownstream, "check-downstream", false, "fail when the downstream program fails")
	if err := flagSet.Parse(args); err != nil {
		return usagef("%v", err)
	}

	groups := util.SplitOn(flagSet.Args(), pipeToken)
	if len(groups) != 2 {
		return usagef("pipe: expected exactly one %q between two commands", pipeToken)
	}
	upstream, err := specFrom(groups[0])
	if err != nil {
		return usagef("pipe: upstream: %v", err)
	}
	downstream, err := specFrom(groups[1])
	if err != nil {
		return usagef("pipe: downstream: %v", err)
	}
	upstream.Stdin, upstream.Stderr = std.in, std.err
	downstream.Stderr = std.err

	var opts []process.RelayOption
	if decode != "" {
		policy, err := process.ParseDecodePolicy(decode)
		if err != nil {
			return usagef("pipe: %v", err)
		}
		opts = append(opts, process.WithDecodePolicy(policy))
	}
	if checkUpstream {
		opts = append(opts, process.WithUpstreamCheck())
	}
	if checkDownstream {
		opts = append(opts, process.WithDownstreamCheck())
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		return a.adapter.PipeToFile(ctx, upstream, downstream, f, opts...)
	}

	out, err := a.adapter.Pipe(ctx, upstream, downstream, opts...)
	if out != nil {
		if _, werr := std.out.Write(out.Stdout); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `cmdutil runs programs without a shell.

Usage:
  cmdutil [global flags] run [--] PROGRAM [ARGS...]
  cmdutil [global flags] tofile --stdout PATH [--stderr PATH] [--] PROGRAM [ARGS...]
  cmdutil [global flags] pipe [--out PATH] [--decode POLICY] [--] UPSTREAM [ARGS...] '|' DOWNSTREAM [ARGS...]
  cmdutil version

A failed program's exit code becomes cmdutil's exit code.

Global flags:
%s`, strings.TrimRight(flagSet.FlagUsages(), "\n")+"\n")
}
