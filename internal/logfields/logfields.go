// Package logfields defines the canonical slog attribute keys used by swaggerdoc.
package logfields

import "log/slog"

// Canonical log field names.
const (
	KeyDocument   = "document"
	KeyLine       = "line"
	KeySpec       = "spec"
	KeySource     = "source"
	KeyDest       = "dest"
	KeyURL        = "url"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyID         = "id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyExtension  = "extension"
	KeyLayout     = "layout"
	KeyEvent      = "event"
	KeyAddr       = "addr"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyError      = "error"
)

func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Spec(ref string) slog.Attr       { return slog.String(KeySpec, ref) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func ID(id string) slog.Attr          { return slog.String(KeyID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Extension(name string) slog.Attr { return slog.String(KeyExtension, name) }
func Layout(l string) slog.Attr       { return slog.String(KeyLayout, l) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }

// Error renders err as a string attribute; nil yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
