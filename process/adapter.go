package process

import (
	"context"
	"os"
	"time"

	goerrors "github.com/kbukum/cmdutil/errors"
	"github.com/kbukum/cmdutil/validation"
)

// Config configures an Adapter.
type Config struct {
	// Name identifies this adapter instance in logs.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Timeout bounds every operation. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	// Decode is the relay decode policy: skip, fail or passthrough.
	Decode string `yaml:"decode,omitempty" mapstructure:"decode" validate:"omitempty,oneof=skip fail passthrough"`
	// CheckUpstream makes a failing upstream an error in Pipe.
	CheckUpstream bool `yaml:"check_upstream,omitempty" mapstructure:"check_upstream"`
	// CheckDownstream makes a failing downstream an error in Pipe.
	CheckDownstream bool `yaml:"check_downstream,omitempty" mapstructure:"check_downstream"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "process"
	}
	if c.Decode == "" {
		c.Decode = DecodeSkip.String()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Adapter applies configured defaults (timeout, relay options) to the
// package-level operations and rejects specs without a Path before spawning.
type Adapter struct {
	config Config
	relay  []RelayOption
}

// NewAdapter creates an Adapter after applying defaults and validating cfg.
func NewAdapter(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := ParseDecodePolicy(cfg.Decode)
	if err != nil {
		return nil, err
	}

	relay := []RelayOption{WithDecodePolicy(policy)}
	if cfg.CheckUpstream {
		relay = append(relay, WithUpstreamCheck())
	}
	if cfg.CheckDownstream {
		relay = append(relay, WithDownstreamCheck())
	}
	return &Adapter{config: cfg, relay: relay}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// Run validates spec and runs it.
func (a *Adapter) Run(ctx context.Context, spec Spec) error {
	if err := validation.Validate(spec); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return Run(ctx, spec)
}

// ToFile validates spec and runs it with output redirected to files.
// stdout is required; stderr is optional.
func (a *Adapter) ToFile(ctx context.Context, spec Spec, stdout, stderr *os.File) error {
	if err := validation.Validate(spec); err != nil {
		return err
	}
	if stdout == nil {
		return goerrors.InvalidInput("stdout", "an output file is required")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return ToFile(ctx, spec, stdout, stderr)
}

// Pipe validates both specs and pipes them. opts are applied after the
// configured relay options.
func (a *Adapter) Pipe(ctx context.Context, upstream, downstream Spec, opts ...RelayOption) (*Output, error) {
	if err := a.validatePair(upstream, downstream); err != nil {
		return nil, err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return Pipe(ctx, upstream, downstream, a.options(opts)...)
}

// PipeToFile validates both specs and pipes them into f.
func (a *Adapter) PipeToFile(ctx context.Context, upstream, downstream Spec, f *os.File, opts ...RelayOption) error {
	if err := a.validatePair(upstream, downstream); err != nil {
		return err
	}
	if f == nil {
		return goerrors.InvalidInput("file", "an output file is required")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return PipeToFile(ctx, upstream, downstream, f, a.options(opts)...)
}

func (a *Adapter) validatePair(upstream, downstream Spec) error {
	if err := validation.Validate(upstream); err != nil {
		return err
	}
	return validation.Validate(downstream)
}

func (a *Adapter) options(extra []RelayOption) []RelayOption {
	opts := make([]RelayOption, 0, len(a.relay)+len(extra))
	opts = append(opts, a.relay...)
	return append(opts, extra...)
}

func (a *Adapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.Timeout > 0 {
		return context.WithTimeout(ctx, a.config.Timeout)
	}
	return context.WithCancel(ctx)
}
