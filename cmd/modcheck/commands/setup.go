package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/modcheck/pkg/config"
	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
	"github.com/Sumatoshi-tech/modcheck/pkg/version"
)

// observabilityInit matches observability.Init so tests can swap it out.
type observabilityInit func(observability.Config) (observability.Providers, error)

// loadConfig reads the config file and applies the persistent flags. Any
// failure is a usage error.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, usageError(err)
	}

	switch {
	case opts.logLevel != "":
		cfg.Logging.Level = opts.logLevel
	case opts.verbose:
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, usageError(err)
	}

	return cfg, nil
}

// observabilityConfig maps project config onto observability settings.
func observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogJSON = strings.EqualFold(cfg.Logging.Format, "json")

	if level, err := observability.ParseLogLevel(cfg.Logging.Level); err == nil {
		obsCfg.LogLevel = level
	}

	return obsCfg
}

// startObservability initializes providers and fills the fields a stubbed
// init may leave empty.
func startObservability(initFn observabilityInit, obsCfg observability.Config) (observability.Providers, error) {
	if initFn == nil {
		initFn = observability.Init
	}

	providers, err := initFn(obsCfg)
	if err != nil {
		return observability.Providers{}, err
	}

	if providers.Logger == nil {
		providers.Logger = slog.Default()
	}

	if providers.Shutdown == nil {
		providers.Shutdown = func(_ context.Context) error { return nil }
	}

	return providers, nil
}

func shutdownObservability(providers observability.Providers) {
	if err := providers.Shutdown(context.Background()); err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
