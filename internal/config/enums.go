package config

import (
	"log/slog"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/foundation/normalization"
)

// Layout selects where pages are written.
type Layout string

const (
	// LayoutFlat writes page.html.
	LayoutFlat Layout = "flat"
	// LayoutDirectory writes page/index.html.
	LayoutDirectory Layout = "directory"
)

var layoutNormalizer = normalization.NewNormalizer("layout", map[string]Layout{
	"flat":               LayoutFlat,
	"html":               LayoutFlat,
	"directory":          LayoutDirectory,
	"dirhtml":            LayoutDirectory,
	"per-page-directory": LayoutDirectory,
}, LayoutFlat)

// NormalizeLayout maps raw (including builder aliases such as "dirhtml") to a Layout.
func NormalizeLayout(raw string) Layout { return layoutNormalizer.Normalize(raw) }

// ParseLayout is NormalizeLayout for user input that must be recognized.
func ParseLayout(raw string) (Layout, error) {
	l, err := layoutNormalizer.NormalizeWithError(raw)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryValidation, "invalid layout").
			WithContext("value", raw).Build()
	}
	return l, nil
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel { return logLevelNormalizer.Normalize(raw) }

// LookupLogLevel reports whether raw names a known level.
func LookupLogLevel(raw string) (LogLevel, bool) { return logLevelNormalizer.Lookup(raw) }

// SlogLevel converts l for slog.HandlerOptions. Unknown levels map to info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat { return logFormatNormalizer.Normalize(raw) }
