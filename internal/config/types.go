package config

import "time"

// Config represents the optional distbuilder.yaml configuration file.
type Config struct {
	Product   string         `yaml:"product"`
	BuildRoot string         `yaml:"build_root"`
	Launchers []Launcher     `yaml:"launchers"`
	Windows   WindowsConfig  `yaml:"windows"`
	History   HistoryConfig  `yaml:"history,omitempty"`
	Publish   *PublishConfig `yaml:"publish,omitempty"`
	Notify    *NotifyConfig  `yaml:"notify,omitempty"`
	Metrics   MetricsConfig  `yaml:"metrics,omitempty"`
	Watch     WatchConfig    `yaml:"watch,omitempty"`
}

// Launcher pairs a generated script name with the entry-point class it starts.
type Launcher struct {
	Name      string `yaml:"name"`
	MainClass string `yaml:"main_class"`
	Disabled  bool   `yaml:"disabled,omitempty"`

	// LegacyOnly launchers are written only by --dest builds.
	LegacyOnly bool `yaml:"legacy_only,omitempty"`
}

// WindowsConfig holds the inputs of the firewall/service configuration script.
type WindowsConfig struct {
	RulesScript      string         `yaml:"rules_script"`
	FirewallRules    []FirewallRule `yaml:"firewall_rules"`
	DisabledServices []string       `yaml:"disabled_services"`
}

// FirewallRule is one inbound allow rule added by the rules script.
type FirewallRule struct {
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"` // TCP|UDP
	Port     int    `yaml:"port"`
}

// HistoryConfig enables the SQLite build history when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PublishConfig configures upload of the finished archive to S3-compatible storage.
// Credentials are read from DISTBUILDER_S3_ACCESS_KEY / DISTBUILDER_S3_SECRET_KEY.
type PublishConfig struct {
	Endpoint string      `yaml:"endpoint"`
	Bucket   string      `yaml:"bucket"`
	Prefix   string      `yaml:"prefix,omitempty"`
	Region   string      `yaml:"region,omitempty"`
	UseSSL   bool        `yaml:"use_ssl"`
	Retry    RetryConfig `yaml:"retry,omitempty"`

	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// NotifyConfig configures the NATS build announcement.
type NotifyConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig controls the Prometheus textfile written after each build.
type MetricsConfig struct {
	File string `yaml:"file,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// RetryConfig mirrors retry.Policy fields in YAML form.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries int              `yaml:"max_retries,omitempty"`
}

// EnabledLaunchers returns the launchers of a versioned build, in declaration order.
func (c *Config) EnabledLaunchers() []Launcher { return c.LaunchersFor(false) }

// LaunchersFor returns the launchers written by a build of the given layout.
// Disabled launchers are never written; legacy-only ones only for --dest.
func (c *Config) LaunchersFor(legacy bool) []Launcher {
	out := make([]Launcher, 0, len(c.Launchers))
	for _, l := range c.Launchers {
		if l.Disabled || (l.LegacyOnly && !legacy) {
			continue
		}
		out = append(out, l)
	}
	return out
}
