// Package config provides configuration management for the language model gateway.
// It handles loading and parsing YAML configuration files, and provides structured
// access to application settings including server port, model configuration sources,
// logging options, and agent limits.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Host is the network interface on which the API server will listen.
	Host string `yaml:"host"`

	// Port is the network port on which the API server will listen.
	Port int `yaml:"port"`

	// Debug enables or disables debug-level logging and other debug features.
	Debug bool `yaml:"debug"`

	// LoggingToFile controls whether application logs are written to rotating files or stdout.
	LoggingToFile bool `yaml:"logging-to-file"`

	// LogPayloads enables logging of model output and tool artifacts returned to clients.
	LogPayloads bool `yaml:"log-payloads"`

	// ModelConfigPath points at the model definition source. It may be a local
	// file or directory, an s3:// URL, or a GitHub repository URL.
	ModelConfigPath string `yaml:"model-config-path"`

	// ModelConfigPathBackup is a local fallback used when the primary source
	// yields no model definitions.
	ModelConfigPathBackup string `yaml:"model-config-path-backup"`

	// ModelConfigCacheTTLSeconds controls how long loaded model definitions are cached.
	ModelConfigCacheTTLSeconds int `yaml:"model-config-cache-ttl"`

	// MaxAgentSteps bounds the number of model invocations in a single agent run.
	MaxAgentSteps int `yaml:"max-agent-steps"`

	// ObjectStore configures the S3-compatible endpoint used for s3:// config paths.
	ObjectStore ObjectStoreConfig `yaml:"object-store"`

	// GitStore configures credentials for GitHub-hosted model configuration.
	GitStore GitStoreConfig `yaml:"git-store"`
}

// ObjectStoreConfig holds S3-compatible object storage settings.
type ObjectStoreConfig struct {
	// Endpoint is the object store host, e.g. "s3.amazonaws.com" or "minio:9000".
	Endpoint string `yaml:"endpoint"`
	// AccessKey is the access key id.
	AccessKey string `yaml:"access-key"`
	// SecretKey is the secret access key.
	SecretKey string `yaml:"secret-key"`
	// Region is the optional bucket region.
	Region string `yaml:"region"`
	// UseSSL toggles TLS for the object store connection.
	UseSSL bool `yaml:"use-ssl"`
}

// GitStoreConfig holds credentials for reading model configuration from git.
type GitStoreConfig struct {
	// Username is the basic-auth username; "git" works for GitHub token auth.
	Username string `yaml:"username"`
	// Token is the personal access token used for private repositories.
	Token string `yaml:"token"`
	// LocalPath is the directory where the repository is cloned.
	LocalPath string `yaml:"local-path"`
}

const (
	defaultPort          = 5050
	defaultCacheTTL      = 3600
	defaultMaxAgentSteps = 10
)

// LoadConfig reads and parses the configuration file at the given path.
// Missing optional fields are filled with defaults; environment variables
// override object store and git store credentials.
func LoadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}

	cfg := &Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
	}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadConfigOptional behaves like LoadConfig but returns an empty defaulted
// configuration when the file does not exist and optional is true.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	if _, err := os.Stat(configFile); err != nil && optional {
		cfg := &Config{}
		cfg.applyDefaults()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return LoadConfig(configFile)
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.ModelConfigCacheTTLSeconds <= 0 {
		c.ModelConfigCacheTTLSeconds = defaultCacheTTL
	}
	if c.MaxAgentSteps <= 0 {
		c.MaxAgentSteps = defaultMaxAgentSteps
	}
}

func (c *Config) applyEnvOverrides() {
	lookup := func(keys ...string) (string, bool) {
		for _, key := range keys {
			if value, ok := os.LookupEnv(key); ok {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed, true
				}
			}
		}
		return "", false
	}
	if value, ok := lookup("CONFIG_PATH", "config_path"); ok {
		c.ModelConfigPath = value
	}
	if value, ok := lookup("CONFIG_PATH_BACKUP", "config_path_backup"); ok {
		c.ModelConfigPathBackup = value
	}
	if value, ok := lookup("OBJECTSTORE_ENDPOINT", "objectstore_endpoint"); ok {
		c.ObjectStore.Endpoint = value
	}
	if value, ok := lookup("OBJECTSTORE_ACCESS_KEY", "objectstore_access_key"); ok {
		c.ObjectStore.AccessKey = value
	}
	if value, ok := lookup("OBJECTSTORE_SECRET_KEY", "objectstore_secret_key"); ok {
		c.ObjectStore.SecretKey = value
	}
	if value, ok := lookup("GITSTORE_GIT_USERNAME", "gitstore_git_username"); ok {
		c.GitStore.Username = value
	}
	if value, ok := lookup("GITSTORE_GIT_TOKEN", "gitstore_git_token"); ok {
		c.GitStore.Token = value
	}
}
