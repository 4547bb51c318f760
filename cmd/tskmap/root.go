package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/soaring-tools/tskmap/internal/config"
	"github.com/soaring-tools/tskmap/internal/logging"
	intOtel "github.com/soaring-tools/tskmap/internal/otel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildVersion and BuildDate can be set at build time via ldflags
var (
	BuildVersion = "0.0.1"
	BuildDate    = "unknown"
)

const appName = "tskmap"

var (
	configDir string

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider collects render metrics when enabled
	OTelProvider *intOtel.Provider
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Render XCSoar competition tasks as GeoJSON",
	Long: `tskmap reads XCSoar .tsk task files and turns them into map geometry:
the course line, every observation zone and the waypoint markers, encoded
as a GeoJSON FeatureCollection.

Settings are read from ` + config.FileName + ` in the config directory.
Command line flags override the file.`,
	Version:            BuildVersion + " (" + BuildDate + ")",
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// ExecuteContext runs the root command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing "+config.FileName)
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("metrics", false, "print render metrics to stderr on exit")
}

// setup loads the configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	cfgErr := config.Load(configDir)
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrNotFound) {
		return cfgErr
	}

	flags := cmd.Root().PersistentFlags()
	if err := viper.BindPFlag("logLevel", flags.Lookup("log-level")); err != nil {
		return err
	}
	if err := viper.BindPFlag("otel.enabled", flags.Lookup("metrics")); err != nil {
		return err
	}

	var file io.Writer
	if dir := config.GetString("logsDir"); dir != "" {
		file = logging.NewFileWriter(dir, appName)
	}

	command := cmd.CommandPath()
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(file, config.GetString("logLevel"), func() []slog.Attr {
		return []slog.Attr{slog.String("command", command)}
	})
	Logger = SlogManager.Logger()

	if cfgErr != nil {
		Logger.Debug("No config file, using defaults", "dir", configDir)
	}

	otelCfg := config.GetOTelConfig()
	var err error
	OTelProvider, err = intOtel.New(intOtel.Config{
		Enabled:     otelCfg.Enabled,
		ServiceName: otelCfg.ServiceName,
		Version:     BuildVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to create OTel provider: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if OTelProvider != nil && OTelProvider.Enabled() {
		counters, err := OTelProvider.Counters(cmd.Context())
		if err != nil {
			Logger.Warn("Failed to collect metrics", "error", err)
		}
		for _, c := range counters {
			fmt.Fprintln(cmd.ErrOrStderr(), c)
		}
		if err := OTelProvider.Shutdown(cmd.Context()); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}

	if SlogManager == nil {
		return nil
	}
	if err := SlogManager.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

// bindFlags lets explicitly set command flags override config keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}
