package config

import (
	"fmt"

	"github.com/kbukum/cmdutil/logger"
	"github.com/kbukum/cmdutil/observability"
	"github.com/kbukum/cmdutil/process"
	"github.com/kbukum/cmdutil/validation"
)

// Name is the base name of the config and .env files searched by Load.
const Name = "cmdutil"

// ServiceConfig is the configuration of the cmdutil command.
type ServiceConfig struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging" validate:"-"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability" validate:"-"`
	Process       process.Config       `yaml:"process" mapstructure:"process" validate:"-"`
}

// ApplyDefaults applies default values to every section.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = Name
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Process.ApplyDefaults()
}

// Validate validates every section.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if err := c.Process.Validate(); err != nil {
		return fmt.Errorf("config.process: %w", err)
	}
	return nil
}

// Load loads, defaults and validates the cmdutil configuration.
func Load(opts ...LoaderOption) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := LoadConfig(Name, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
