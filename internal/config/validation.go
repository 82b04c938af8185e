package config

import (
	"fmt"
	"strings"

	derrors "github.com/wwscc/distbuilder/internal/errors"
)

// ValidateConfig validates a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateProduct(); err != nil {
		return err
	}
	if err := cv.validateLaunchers(); err != nil {
		return err
	}
	if err := cv.validateWindows(); err != nil {
		return err
	}
	if err := cv.validatePublish(); err != nil {
		return err
	}
	return cv.validateNotify()
}

func (cv *configurationValidator) validateProduct() error {
	if strings.ContainsAny(cv.config.Product, `/\ `) {
		return derrors.ValidationFailed("product", "must not contain path separators or spaces")
	}
	return nil
}

func (cv *configurationValidator) validateLaunchers() error {
	if len(cv.config.EnabledLaunchers()) == 0 {
		return derrors.ValidationFailed("launchers", "at least one launcher must be enabled")
	}
	seen := make(map[string]bool, len(cv.config.Launchers))
	for i, l := range cv.config.Launchers {
		field := fmt.Sprintf("launchers[%d]", i)
		if l.Name == "" {
			return derrors.ValidationFailed(field+".name", "cannot be empty")
		}
		if strings.ContainsAny(l.Name, `/\`) {
			return derrors.ValidationFailed(field+".name", "must be a plain file name")
		}
		if l.MainClass == "" {
			return derrors.ValidationFailed(field+".main_class", "cannot be empty")
		}
		if seen[l.Name] {
			return derrors.ValidationFailed(field+".name", "duplicate launcher name "+l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

func (cv *configurationValidator) validateWindows() error {
	w := cv.config.Windows
	if strings.ContainsAny(w.RulesScript, `/\`) {
		return derrors.ValidationFailed("windows.rules_script", "must be a plain file name")
	}
	for i, r := range w.FirewallRules {
		field := fmt.Sprintf("windows.firewall_rules[%d]", i)
		if r.Name == "" || strings.ContainsAny(r.Name, " \t") {
			return derrors.ValidationFailed(field+".name", "must be a non-empty token without spaces")
		}
		if r.Protocol != "TCP" && r.Protocol != "UDP" {
			return derrors.ValidationFailed(field+".protocol", "must be TCP or UDP")
		}
		if r.Port < 1 || r.Port > 65535 {
			return derrors.ValidationFailed(field+".port", "must be between 1 and 65535")
		}
	}
	for i, s := range w.DisabledServices {
		if s == "" || strings.ContainsAny(s, " \t") {
			return derrors.ValidationFailed(fmt.Sprintf("windows.disabled_services[%d]", i), "must be a non-empty service name")
		}
	}
	return nil
}

func (cv *configurationValidator) validatePublish() error {
	p := cv.config.Publish
	if p == nil {
		return nil
	}
	if p.Endpoint == "" {
		return derrors.ValidationFailed("publish.endpoint", "required when publish is configured")
	}
	if p.Bucket == "" {
		return derrors.ValidationFailed("publish.bucket", "required when publish is configured")
	}
	if p.Retry.Backoff == "" {
		return derrors.ValidationFailed("publish.retry.backoff", "must be fixed, linear or exponential")
	}
	if p.Retry.MaxRetries < 0 {
		return derrors.ValidationFailed("publish.retry.max_retries", "cannot be negative")
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if n == nil {
		return nil
	}
	if n.URL == "" {
		return derrors.ValidationFailed("notify.url", "required when notify is configured")
	}
	return nil
}

func normalizeProtocol(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
