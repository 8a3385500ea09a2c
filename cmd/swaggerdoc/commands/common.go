// Package commands implements the swaggerdoc subcommands.
package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

// EnvLogLevel overrides logging.level when -v is not given.
const EnvLogLevel = "SWAGGERDOC_LOG_LEVEL"

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "swaggerdoc.yaml"

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"swaggerdoc.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" help:"Build the documentation site"`
	Init        InitCmd        `cmd:"" help:"Write an example configuration file"`
	Serve       ServeCmd       `cmd:"" help:"Serve the built site, optionally rebuilding on change"`
	FetchAssets FetchAssetsCmd `cmd:"" name:"fetch-assets" help:"Download the Swagger UI assets into the static directory"`

	logOut io.Writer
	out    io.Writer
}

// AfterApply runs after flag parsing; sets up logging from -v and the
// environment until a configuration file refines it.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.setupLogging(config.LogFormatText, "")
	return nil
}

func (c *CLI) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *CLI) setupLogging(format config.LogFormat, level config.LogLevel) *slog.Logger {
	out := c.logOut
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(out, format, resolveLevel(c.Verbose, os.Getenv(EnvLogLevel), level))
	slog.SetDefault(logger)
	return logger
}

// resolveLevel applies the precedence -v > environment > configuration.
func resolveLevel(verbose bool, env string, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if l, ok := config.LookupLogLevel(env); ok {
		return l.SlogLevel()
	}
	return configured.SlogLevel()
}

func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads --config. A missing file at the default path falls back
// to a default configuration rooted at the working directory.
func (c *CLI) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, warnings, err := config.Load(c.Config)
	if err != nil {
		if c.Config != DefaultConfigPath || !errors.Is(err, config.ErrNotFound) {
			return nil, slog.Default(), err
		}
		slog.Debug("No configuration file; using defaults", logfields.Path(c.Config))
		if cfg, err = config.Default("."); err != nil {
			return nil, slog.Default(), err
		}
	}
	logger := c.setupLogging(cfg.Logging.Format, cfg.Logging.Level)
	for _, w := range warnings {
		logger.Warn("Configuration normalized", slog.String("detail", w))
	}
	return cfg, logger, nil
}
