package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "github.com/wwscc/distbuilder/internal/errors"
)

// DefaultConfigFile is the config file looked up when --config is not given.
const DefaultConfigFile = "distbuilder.yaml"

// envFiles are loaded in order; earlier files win because godotenv never overrides.
var envFiles = []string{".env", ".env.local"}

// Load loads configuration from the specified file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, fmt.Errorf("read: %w", err))
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configPath when it exists. A missing file is only an
// error when the caller named it explicitly.
func LoadOrDefault(configPath string, explicit bool) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !explicit {
		loadEnvFiles()
		slog.Debug("No configuration file, using defaults", "path", configPath)
		cfg := Default()
		applySecrets(cfg)
		return cfg, nil
	}
	return Load(configPath)
}

// Parse decodes YAML bytes (after ${VAR} expansion), applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	applySecrets(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

// expandEnv replaces ${VAR} references only. A bare $ is kept, so nested
// class names such as Main$Launcher survive.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// loadEnvFiles loads .env and .env.local when present. Existing process
// environment variables are not overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}

func applySecrets(cfg *Config) {
	if cfg.Publish == nil {
		return
	}
	if v := os.Getenv("DISTBUILDER_S3_ACCESS_KEY"); v != "" {
		cfg.Publish.AccessKey = v
	}
	if v := os.Getenv("DISTBUILDER_S3_SECRET_KEY"); v != "" {
		cfg.Publish.SecretKey = v
	}
}
