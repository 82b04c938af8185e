package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTarget     = "target"
	KeyVersion    = "version"
	KeyProduct    = "product"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyName       = "name"
	KeyMainClass  = "main_class"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyAttempt    = "attempt"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Target(t string) slog.Attr        { return slog.String(KeyTarget, t) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Product(p string) slog.Attr       { return slog.String(KeyProduct, p) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Name(n string) slog.Attr          { return slog.String(KeyName, n) }
func MainClass(c string) slog.Attr     { return slog.String(KeyMainClass, c) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Bytes(n int64) slog.Attr          { return slog.Int64(KeyBytes, n) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr          { return slog.Int(KeyAttempt, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
