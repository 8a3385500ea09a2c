// Package config loads and validates swaggerdoc.yaml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

// CurrentVersion is the only configuration schema version understood by Load.
const CurrentVersion = "1"

// ErrNotFound matches the error Load returns for a missing file.
var ErrNotFound = derrors.ConfigError("configuration file not found").Build()

// Config is the root of swaggerdoc.yaml.
type Config struct {
	Version    string           `yaml:"version"`
	Site       SiteConfig       `yaml:"site"`
	Swagger    SwaggerConfig    `yaml:"swagger"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty"`

	// BaseDir is the directory of the loaded file; relative paths resolve against it.
	BaseDir string `yaml:"-"`
}

// SiteConfig describes the documentation source tree and the generated output.
type SiteConfig struct {
	Title          string   `yaml:"title"`
	SourceDir      string   `yaml:"source_dir"`
	OutputDir      string   `yaml:"output_dir"`
	RootDoc        string   `yaml:"root_doc,omitempty"`
	Layout         Layout   `yaml:"layout"`
	StaticDir      string   `yaml:"static_dir,omitempty"`
	HTMLStaticPath []string `yaml:"html_static_path,omitempty"`
	Clean          bool     `yaml:"clean"`
}

// SwaggerConfig holds the viewer settings and the standalone page list.
type SwaggerConfig struct {
	PresentURI       string           `yaml:"present_uri,omitempty"`
	BundleURI        string           `yaml:"bundle_uri,omitempty"`
	CSSURI           string           `yaml:"css_uri,omitempty"`
	VendorAssets     bool             `yaml:"vendor_assets"`
	ValidateSpecs    bool             `yaml:"validate_specs"`
	StrictValidation bool             `yaml:"strict_validation"`
	Pages            []StandalonePage `yaml:"pages,omitempty"`
}

// StandalonePage is one entry of swagger.pages. Options is kept as a raw
// node so that the viewer receives keys in the order the author wrote them.
type StandalonePage struct {
	Name    string    `yaml:"name"`
	Page    string    `yaml:"page,omitempty"`
	ID      string    `yaml:"id,omitempty"`
	Options yaml.Node `yaml:"options,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MonitoringConfig controls metrics export.
type MonitoringConfig struct {
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// Load reads configPath, expands ${VAR} references after loading .env files,
// then normalizes, applies defaults and validates. Normalization warnings are
// returned alongside the config so callers can log them.
func Load(configPath string) (*Config, []string, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, derrors.ConfigError(ErrNotFound.Message()).
				WithContext("file", configPath).Build()
		}
		return nil, nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("file", configPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, nil, err
	}
	abs, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve config directory").Fatal().Build()
	}
	cfg.BaseDir = abs

	warnings, err := Finalize(cfg)
	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// Parse decodes YAML without defaults or validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config").Fatal().Build()
	}
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, derrors.ConfigError(fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion)).Build()
	}
	return &cfg, nil
}

// Finalize runs normalization, defaults and validation in that order.
func Finalize(cfg *Config) ([]string, error) {
	res, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return res.Warnings, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return res.Warnings, err
	}
	return res.Warnings, nil
}

// Default returns a finalized configuration for sourceDir with no file on disk.
func Default(sourceDir string) (*Config, error) {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "resolve source directory").Fatal().Build()
	}
	cfg := &Config{Version: CurrentVersion, BaseDir: abs, Site: SiteConfig{SourceDir: "."}}
	if _, err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SourcePath returns the absolute documentation source directory.
func (c *Config) SourcePath() string { return c.resolve(c.Site.SourceDir) }

// OutputPath returns the absolute output directory.
func (c *Config) OutputPath() string { return c.resolve(c.Site.OutputDir) }

// StaticPaths returns html_static_path entries resolved against the source directory.
func (c *Config) StaticPaths() []string {
	out := make([]string, 0, len(c.Site.HTMLStaticPath))
	for _, p := range c.Site.HTMLStaticPath {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(c.SourcePath(), p))
	}
	return out
}

// MetricsPath returns the absolute metrics textfile path, or "" when disabled.
func (c *Config) MetricsPath() string {
	if c.Monitoring.MetricsFile == "" {
		return ""
	}
	return c.resolve(c.Monitoring.MetricsFile)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(c.BaseDir, p)
}
