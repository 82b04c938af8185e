// Package retry applies backoff to transient upload failures.
package retry

import (
	"time"

	"github.com/wwscc/distbuilder/internal/config"
)

// Upload defaults: a few quick attempts, never waiting longer than the cap.
const (
	DefaultInitial    = 500 * time.Millisecond
	DefaultMax        = 15 * time.Second
	DefaultMaxRetries = 3
)

// Policy decides how long to wait before each retry of a publish.
type Policy struct {
	Backoff    config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // retries after the first attempt
}

// FromConfig turns the publish.retry block into a Policy. Unset fields take
// the upload defaults; an initial delay above the cap is clamped to it.
func FromConfig(rc config.RetryConfig) Policy {
	p := Policy{
		Backoff:    config.NormalizeRetryBackoff(string(rc.Backoff)),
		Initial:    rc.Initial,
		Max:        rc.Max,
		MaxRetries: rc.MaxRetries,
	}
	if p.Backoff == "" {
		p.Backoff = config.RetryBackoffExponential
	}
	if p.Initial <= 0 {
		p.Initial = DefaultInitial
	}
	if p.Max <= 0 {
		p.Max = DefaultMax
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	return p
}

// Delay is the wait before retry n (1 for the first retry).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Backoff {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffLinear:
		d = time.Duration(n) * p.Initial
	default:
		if n > 30 {
			return p.Max
		}
		d = p.Initial << (n - 1)
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}
