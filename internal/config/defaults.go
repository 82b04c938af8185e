package config

import "time"

// Built-in defaults for the Scorekeeper distribution.
const (
	DefaultProduct     = "Scorekeeper"
	DefaultBuildRoot   = "build"
	DefaultRulesScript = "rules.bat"
	DefaultDebounce    = 2 * time.Second
)

// DefaultLaunchers returns the launcher pairs shipped with Scorekeeper. The
// ProTimer launcher only ships with legacy --dest builds.
func DefaultLaunchers() []Launcher {
	return []Launcher{
		{Name: "StartScorekeeper", MainClass: "org.wwscc.system.ScorekeeperSystem"},
		{Name: "LoadCerts", MainClass: "org.wwscc.system.LoadCerts"},
		{Name: "StartProTimer", MainClass: "org.wwscc.protimer.ProSoloInterface", LegacyOnly: true},
	}
}

// DefaultFirewallRules returns the inbound rules Scorekeeper needs on Windows.
func DefaultFirewallRules() []FirewallRule {
	return []FirewallRule{
		{Name: "ScorekeeperWeb", Protocol: "TCP", Port: 80},
		{Name: "ScorekeeperTimers", Protocol: "TCP", Port: 54328},
		{Name: "ScorekeeperDatabase", Protocol: "TCP", Port: 54329},
		{Name: "ScorekeeperDNS", Protocol: "UDP", Port: 53},
		{Name: "ScorekeeperMDNS", Protocol: "UDP", Port: 5353},
		{Name: "ScorekeeperDiscovery", Protocol: "UDP", Port: 5454},
	}
}

// DefaultDisabledServices lists Windows services that conflict with the bundled web server.
func DefaultDisabledServices() []string {
	return []string{"w3svc", "SharedAccess"}
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ProductDefaultApplier handles product naming and output layout defaults.
type ProductDefaultApplier struct{}

func (ProductDefaultApplier) Domain() string { return "product" }

func (ProductDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Product == "" {
		cfg.Product = DefaultProduct
	}
	if cfg.BuildRoot == "" {
		cfg.BuildRoot = DefaultBuildRoot
	}
	if len(cfg.Launchers) == 0 {
		cfg.Launchers = DefaultLaunchers()
	}
	return nil
}

// WindowsDefaultApplier fills in the firewall script inputs.
type WindowsDefaultApplier struct{}

func (WindowsDefaultApplier) Domain() string { return "windows" }

func (WindowsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Windows.RulesScript == "" {
		cfg.Windows.RulesScript = DefaultRulesScript
	}
	if cfg.Windows.FirewallRules == nil {
		cfg.Windows.FirewallRules = DefaultFirewallRules()
	}
	if cfg.Windows.DisabledServices == nil {
		cfg.Windows.DisabledServices = DefaultDisabledServices()
	}
	for i := range cfg.Windows.FirewallRules {
		cfg.Windows.FirewallRules[i].Protocol = normalizeProtocol(cfg.Windows.FirewallRules[i].Protocol)
	}
	return nil
}

// IntegrationDefaultApplier defaults the optional publish/notify/watch sections.
type IntegrationDefaultApplier struct{}

func (IntegrationDefaultApplier) Domain() string { return "integrations" }

func (IntegrationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Publish != nil {
		if cfg.Publish.Region == "" {
			cfg.Publish.Region = "us-east-1"
		}
		if cfg.Publish.Retry.Backoff == "" {
			cfg.Publish.Retry.Backoff = RetryBackoffExponential
		} else {
			cfg.Publish.Retry.Backoff = NormalizeRetryBackoff(string(cfg.Publish.Retry.Backoff))
		}
	}
	if cfg.Notify != nil && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "distbuilder.builds"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		ProductDefaultApplier{},
		WindowsDefaultApplier{},
		IntegrationDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
