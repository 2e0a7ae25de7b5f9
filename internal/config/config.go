package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// LifecycleConfig holds the timing policy for lifecycle operations. Timeouts
// supplied by callers are clamped to [min, max] before any service state is
// read.
type LifecycleConfig struct {
	MinTimeoutSeconds       int `yaml:"min_timeout_seconds"`
	MaxTimeoutSeconds       int `yaml:"max_timeout_seconds"`
	PollIntervalMillis      int `yaml:"poll_interval_ms"`
	EscalationSettleSeconds int `yaml:"escalation_settle_seconds"`
	RestartSettleMillis     int `yaml:"restart_settle_ms"`
}

func (lc LifecycleConfig) MinTimeout() time.Duration {
	return time.Duration(lc.MinTimeoutSeconds) * time.Second
}

func (lc LifecycleConfig) MaxTimeout() time.Duration {
	return time.Duration(lc.MaxTimeoutSeconds) * time.Second
}

func (lc LifecycleConfig) PollInterval() time.Duration {
	return time.Duration(lc.PollIntervalMillis) * time.Millisecond
}

func (lc LifecycleConfig) EscalationSettleTimeout() time.Duration {
	return time.Duration(lc.EscalationSettleSeconds) * time.Second
}

func (lc LifecycleConfig) RestartSettleDelay() time.Duration {
	return time.Duration(lc.RestartSettleMillis) * time.Millisecond
}

func Load(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Lifecycle: LifecycleConfig{
			MinTimeoutSeconds:       1,
			MaxTimeoutSeconds:       300,
			PollIntervalMillis:      100,
			EscalationSettleSeconds: 5,
			RestartSettleMillis:     500,
		},
	}

	// Load from file if exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}

			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %v", err)
			}
		}
	}

	// Override with environment variables
	if host := os.Getenv("SVC_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("SVC_PORT"); port != "" {
		if portNum, err := strconv.Atoi(port); err == nil {
			config.Server.Port = portNum
		}
	}

	if logLevel := os.Getenv("SVC_LOG_LEVEL"); logLevel != "" {
		config.Log.Level = logLevel
	}

	if logFormat := os.Getenv("SVC_LOG_FORMAT"); logFormat != "" {
		config.Log.Format = logFormat
	}

	if maxTimeout := os.Getenv("SVC_MAX_TIMEOUT_SECONDS"); maxTimeout != "" {
		if secs, err := strconv.Atoi(maxTimeout); err == nil && secs > 0 {
			config.Lifecycle.MaxTimeoutSeconds = secs
		}
	}

	return config, nil
}

func (c *Config) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}
