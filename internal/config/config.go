// Package config loads the pipeline's configuration from a YAML file with
// environment-variable overrides, the same file-then-env layered shape
// a hand-rolled .env loader would use.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every field the core consumes per the external interfaces
// section: the service's own keypair, the relay set it listens on and
// publishes to, the classifier pub/sub destination, and the chat workspace
// credentials.
type Config struct {
	ServiceKey string `yaml:"service_key"`

	RelayURLs []string `yaml:"relay_urls"`

	PubsubProjectID string `yaml:"pubsub_project_id"`
	PubsubTopicID   string `yaml:"pubsub_topic_id"`

	SlackChannelID string `yaml:"slack_channel_id"`

	HTTPAddr string `yaml:"http_addr"`
}

// defaults seeds a Config with sane values before layering file and
// environment overrides on top.
func defaults() *Config {
	return &Config{
		RelayURLs: []string{"wss://relay.damus.io", "wss://nos.lol"},
		HTTPAddr:  ":8080",
	}
}

// Load reads path as YAML (if it exists), then applies environment
// overrides on top of it.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("service_key is required (config file or SERVICE_KEY env var)")
	}
	if len(cfg.RelayURLs) == 0 {
		return nil, fmt.Errorf("at least one relay url is required")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVICE_KEY"); v != "" {
		cfg.ServiceKey = v
	}
	if v := os.Getenv("RELAY_URLS"); v != "" {
		cfg.RelayURLs = splitAndTrim(v)
	}
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		cfg.PubsubProjectID = v
	}
	if v := os.Getenv("PUBSUB_TOPIC_ID"); v != "" {
		cfg.PubsubTopicID = v
	}
	if v := os.Getenv("SLACK_CHANNEL_ID"); v != "" {
		cfg.SlackChannelID = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
