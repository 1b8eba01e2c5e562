// Package config provides configuration management for the Match Oracle engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are expanded.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("MATCH_ORACLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing config file is tolerated and defaults plus environment
// variables take over.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MATCH_ORACLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setEngineDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setEngineDefaults seeds the empirically observed engine constants so that
// a minimal config file still yields a working engine. None of these values
// are derived; treat them as tuning knobs.
func setEngineDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "match-oracle")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("engine.rating.k_factor", 25.0)
	v.SetDefault("engine.rating.home_advantage", 80.0)
	v.SetDefault("engine.rating.margin_scaling", true)
	v.SetDefault("engine.rating.draw_policy", "fixed")
	v.SetDefault("engine.rating.draw_mass", 0.25)
	v.SetDefault("engine.rating.draw_param", 0.28)
	v.SetDefault("engine.rating.cache_ttl_seconds", 300)

	v.SetDefault("engine.analogue.tolerance", 0.06)
	v.SetDefault("engine.analogue.min_sample", 5)

	v.SetDefault("engine.fusion.rating_base", 0.40)
	v.SetDefault("engine.fusion.rating_gap_bonus", 0.001)
	v.SetDefault("engine.fusion.rating_max_bonus", 0.30)
	v.SetDefault("engine.fusion.analogue_base", 0.30)
	v.SetDefault("engine.fusion.analogue_sample_bonus", 0.01)
	v.SetDefault("engine.fusion.analogue_max_bonus", 0.40)

	v.SetDefault("engine.clones.rating_weight", 0.30)
	v.SetDefault("engine.clones.probability_weight", 0.30)
	v.SetDefault("engine.clones.market_weight", 0.25)
	v.SetDefault("engine.clones.competition_weight", 0.10)
	v.SetDefault("engine.clones.kickoff_weight", 0.05)
	v.SetDefault("engine.clones.rating_scale", 100.0)
	v.SetDefault("engine.clones.probability_scale", 0.25)
	v.SetDefault("engine.clones.market_scale", 0.25)
	v.SetDefault("engine.clones.score_threshold", 0.8)
	v.SetDefault("engine.clones.time_window_hours", 24.0)

	v.SetDefault("engine.value.min_expected_value", 1.05)

	v.SetDefault("schedule.predictions", "0 6 * * *")
	v.SetDefault("schedule.clones", "30 6 * * *")
}
