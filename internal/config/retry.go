package config

import "strings"

// RetryBackoffMode is the publish.retry.backoff setting.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffModes = map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"constant":    RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
	"exp":         RetryBackoffExponential,
}

// NormalizeRetryBackoff maps a config value onto a mode, ignoring case and
// surrounding space. Unknown values yield "".
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	return retryBackoffModes[strings.ToLower(strings.TrimSpace(raw))]
}
