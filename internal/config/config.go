// Package config loads viewc settings from defaults, an optional .viewc.yaml
// file and VIEWC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/grindlemire/viewc/internal/viewc"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers   = errors.New("workers must not be negative")
	ErrInvalidExtension = errors.New("template extension must start with '.'")
	ErrInvalidMacro     = errors.New("macro name must be an identifier")
	ErrShadowsBuiltin   = errors.New("custom target shadows a built-in target")
)

// Default configuration values.
const (
	defaultTarget    = "iced"
	defaultExtension = ".mkp"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	// FileName is the config file searched for when no path is given.
	FileName = ".viewc"
	// EnvPrefix prefixes environment overrides, as in VIEWC_TARGET.
	EnvPrefix = "VIEWC"
)

// Config holds all viewc settings.
type Config struct {
	Target    string                  `mapstructure:"target"`
	Macro     string                  `mapstructure:"macro"`
	Extension string                  `mapstructure:"extension"`
	Log       LogConfig               `mapstructure:"log"`
	Targets   map[string]TargetConfig `mapstructure:"targets"`
	Workers   int                     `mapstructure:"workers"`
	Pretty    bool                    `mapstructure:"pretty"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TargetConfig declares a custom generation target.
type TargetConfig struct {
	Qualifier   string `mapstructure:"qualifier"`
	Collection  string `mapstructure:"collection"`
	ElementType string `mapstructure:"element_type"`
	Indent      string `mapstructure:"indent"`
}

// LoadConfig loads configuration from configPath, or from .viewc.yaml in the
// working directory or $HOME when configPath is empty. A missing default
// file is not an error; a missing explicit file is.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		if err := validateFile(used); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("target", defaultTarget)
	v.SetDefault("pretty", false)
	v.SetDefault("macro", viewc.DefaultMacro)
	v.SetDefault("extension", defaultExtension)
	v.SetDefault("workers", 0)

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, cfg.Extension)
	}

	if !isIdent(cfg.Macro) {
		return fmt.Errorf("%w: %q", ErrInvalidMacro, cfg.Macro)
	}

	for _, name := range sortedKeys(cfg.Targets) {
		if _, err := viewc.LookupTarget(name); err == nil {
			return fmt.Errorf("%w: %q", ErrShadowsBuiltin, name)
		}
		if err := cfg.Targets[name].Target(name).Validate(); err != nil {
			return err
		}
	}

	if _, err := cfg.ResolveTarget(cfg.Target); err != nil {
		return err
	}

	return nil
}

// Target converts the declaration into a generation target.
func (tc TargetConfig) Target(name string) viewc.Target {
	return viewc.Target{
		Name:            name,
		WidgetQualifier: tc.Qualifier,
		Collection:      viewc.CollectionForm(tc.Collection),
		ElementType:     tc.ElementType,
		Indent:          tc.Indent,
	}
}

// ResolveTarget returns the custom target called name, or the built-in one.
func (c *Config) ResolveTarget(name string) (viewc.Target, error) {
	if tc, ok := c.Targets[strings.ToLower(name)]; ok {
		return tc.Target(strings.ToLower(name)), nil
	}
	t, err := viewc.LookupTarget(name)
	if err != nil {
		return viewc.Target{}, fmt.Errorf("%w (custom targets: %v)", err, sortedKeys(c.Targets))
	}
	return t, nil
}

// Options returns the compile options selected by the configuration.
func (c *Config) Options() (viewc.Options, error) {
	t, err := c.ResolveTarget(c.Target)
	if err != nil {
		return viewc.Options{}, err
	}
	return viewc.Options{Target: t, Pretty: c.Pretty}, nil
}

// TargetNames returns the names of all built-in and custom targets.
func (c *Config) TargetNames() []string {
	names := append(viewc.TargetNames(), sortedKeys(c.Targets)...)
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]TargetConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
