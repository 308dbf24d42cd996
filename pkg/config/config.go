package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules/requiredmodules"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

// Output formats.
const (
	FormatText    = "text"
	FormatCompact = "compact"
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrInvalidLogLevel   = errors.New("invalid logging level")
	ErrInvalidLogFormat  = errors.New("invalid logging format")
	ErrInvalidWorkers    = errors.New("workers must not be negative")
	ErrDuplicateModule   = errors.New("duplicate required module")
	ErrEmptyModuleName   = errors.New("empty required module name")
	ErrInvalidExtensions = errors.New("extensions must start with a dot")
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatCompact, FormatTable, FormatJSON, FormatYAML}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config is the modcheck project configuration.
type Config struct {
	Rules      RulesConfig     `mapstructure:"rules"`
	SourceType string          `mapstructure:"source_type"`
	Extensions []string        `mapstructure:"extensions"`
	Exclude    []string        `mapstructure:"exclude"`
	Workers    int             `mapstructure:"workers"`
	Output     OutputConfig    `mapstructure:"output"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	Telemetry  TelemetryConfig `mapstructure:"telemetry"`
}

// RulesConfig holds per-rule options.
type RulesConfig struct {
	RequiredModules []string `mapstructure:"required_modules"`
	// Severity of required-modules diagnostics: error or warning.
	Severity string `mapstructure:"severity"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	// MetricsFile, when set, receives a Prometheus text exposition after a run.
	MetricsFile string `mapstructure:"metrics_file"`
}

// Validate checks the configuration for semantic errors.
func (cfg *Config) Validate() error {
	if _, err := uast.ParseSourceType(cfg.SourceType); err != nil {
		return err
	}

	if _, err := lint.ParseSeverity(cfg.Rules.Severity); err != nil {
		return err
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtensions, ext)
		}
	}

	if !slices.Contains(Formats(), cfg.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Output.Format)
	}

	if !slices.Contains(logLevels, strings.ToLower(cfg.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(cfg.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logging.Format)
	}

	return validateModules(cfg.Rules.RequiredModules)
}

func validateModules(names []string) error {
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyModuleName
		}

		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateModule, name)
		}

		seen[name] = struct{}{}
	}

	return nil
}

// ParsedSourceType returns the configured source type.
func (cfg *Config) ParsedSourceType() uast.SourceType {
	sourceType, err := uast.ParseSourceType(cfg.SourceType)
	if err != nil {
		return uast.SourceTypeAuto
	}

	return sourceType
}

// RuleSeverity returns the configured diagnostic severity.
func (cfg *Config) RuleSeverity() lint.Severity {
	severity, err := lint.ParseSeverity(cfg.Rules.Severity)
	if err != nil {
		return lint.SeverityError
	}

	return severity
}

// RuleOptions converts the rules section into Linter options keyed by rule name.
func (cfg *Config) RuleOptions() map[string][]any {
	options := make([]any, 0, len(cfg.Rules.RequiredModules))
	for _, name := range cfg.Rules.RequiredModules {
		options = append(options, name)
	}

	return map[string][]any{requiredmodules.Name: options}
}
