// ABOUTME: YAML configuration for the bitgrind server
// ABOUTME: Load, defaults and validation for all service settings
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Control   ControlConfig   `yaml:"control"`
	Audio     AudioConfig     `yaml:"audio"`
	Effects   EffectsConfig   `yaml:"effects"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ControlConfig configures the MIDI ingest transports.
type ControlConfig struct {
	WSPort     int    `yaml:"ws_port"`
	WSPath     string `yaml:"ws_path"`
	MQTTBroker string `yaml:"mqtt_broker"` // empty disables MQTT
	MQTTTopic  string `yaml:"mqtt_topic"`
}

// AudioConfig configures the audio path.
type AudioConfig struct {
	File       string `yaml:"file"` // empty plays the test tone
	BlockSize  int    `yaml:"block_size"`
	PlayOutput bool   `yaml:"play_output"`
}

// EffectsConfig sets the initial crusher parameters.
type EffectsConfig struct {
	BitDepth         int `yaml:"bit_depth"`
	DecimationFactor int `yaml:"decimation_factor"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// DiscoveryConfig configures mDNS advertisement.
type DiscoveryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Control: ControlConfig{
			WSPort:    8937,
			WSPath:    "/midi",
			MQTTTopic: "bitgrind/midi",
		},
		Audio: AudioConfig{
			BlockSize:  1024,
			PlayOutput: true,
		},
		Effects: EffectsConfig{
			BitDepth:         16,
			DecimationFactor: 1,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
		},
	}
}

// Load reads and parses the configuration file, filling gaps with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Control.WSPort <= 0 || c.Control.WSPort > 65535 {
		return fmt.Errorf("control ws_port %d out of range", c.Control.WSPort)
	}
	if c.Audio.BlockSize <= 0 || c.Audio.BlockSize%2 != 0 {
		return fmt.Errorf("audio block_size %d must be positive and even", c.Audio.BlockSize)
	}
	if c.Effects.BitDepth < 1 || c.Effects.BitDepth > 16 {
		return fmt.Errorf("effects bit_depth %d out of range [1, 16]", c.Effects.BitDepth)
	}
	if c.Effects.DecimationFactor < 1 || c.Effects.DecimationFactor > 64 {
		return fmt.Errorf("effects decimation_factor %d out of range [1, 64]", c.Effects.DecimationFactor)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics port %d out of range", c.Metrics.Port)
	}
	return nil
}
