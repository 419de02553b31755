// Package commands implements the vmxd daemon command.
package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vmx/internal/config"
	vmxerrors "github.com/thoreinstein/vmx/internal/errors"
	"github.com/thoreinstein/vmx/internal/logging"
	"github.com/thoreinstein/vmx/internal/manifest"
	"github.com/thoreinstein/vmx/internal/paths"
	"github.com/thoreinstein/vmx/internal/platform"
	"github.com/thoreinstein/vmx/internal/settings"
	"github.com/thoreinstein/vmx/pkg/fileutil"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// configFile holds the value of the --config flag.
var configFile string

// logLevel holds the value of the --log-level flag.
var logLevel string

// logFormat holds the value of the --log-format flag.
var logFormat string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to the daemon bootstrap config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "V", "",
		"log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json (overrides config)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("vmxd version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "vmxd",
	Short: "The vmx daemon",
	Long: `vmxd is the daemon side of vmx. It owns the daemon-scoped persisted
settings, serves clients, and restarts itself when its settings file
changes on disk.`,
	RunE: runDaemon,
}

// Execute runs the daemon command.
func Execute() error {
	return rootCmd.Execute()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	caps := platform.Detect()

	config.Init(caps)
	cfg, err := config.Load(configFile)
	if err != nil {
		return vmxerrors.NewUserError(err, "check the daemon bootstrap config")
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.Format(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})

	registry, err := settings.New(caps, settings.WithLogger(log))
	if err != nil {
		return vmxerrors.NewSystemError(err, "")
	}

	if err := ensureSettingsFile(registry.DaemonSettingsFilePath()); err != nil {
		return vmxerrors.NewSystemError(err, "consider running with an administrative role")
	}

	log.Info("vmxd starting", "version", version)
	log.Info("settings files resolved",
		"daemon", registry.DaemonSettingsFilePath(),
		"client", registry.ClientSettingsFilePath())

	driver, err := registry.Get(settings.DriverKey)
	if err != nil {
		return vmxerrors.NewSystemError(err, "")
	}
	log.Info("driver selected", "driver", driver)

	if cfg.ManifestPath != "" {
		if err := preloadManifest(cfg.ManifestPath, driver, log); err != nil {
			return vmxerrors.NewUserError(err, "check manifest_path in the daemon config")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return monitorSettingsFile(ctx, registry.DaemonSettingsFilePath(), log)
}

// ensureSettingsFile creates the daemon settings file (and its parent
// directory) if missing, so the change monitor has something to watch.
func ensureSettingsFile(path string) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	return f.Close()
}

func preloadManifest(path, driver string, log *slog.Logger) error {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return err
	}

	m, err := manifest.FromJSON(data, "file://"+path, driver)
	if err != nil {
		return err
	}

	log.Info("image manifest loaded",
		"updated", m.Updated, "products", len(m.Products))
	return nil
}
