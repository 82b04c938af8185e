package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const exampleHeader = `# distbuilder configuration
#
# Flags (--modules, --jdk, --app, --target, --version) select what is built;
# this file describes the product: launcher scripts, Windows firewall rules,
# and the optional history/publish/notify/metrics integrations.
#
# Values may reference environment variables as ${VAR}.
`

// Init creates a new configuration file with the built-in defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.History = HistoryConfig{Path: "build/history.db"}
	example.Metrics = MetricsConfig{File: "build/distbuilder.prom"}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(configPath, append([]byte(exampleHeader), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
