// Package config provides configuration management for the Match Oracle engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Health   HealthConfig   `mapstructure:"health"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// EngineConfig groups the prediction and similarity engine parameters.
type EngineConfig struct {
	Rating   RatingConfig   `mapstructure:"rating" validate:"required"`
	Analogue AnalogueConfig `mapstructure:"analogue" validate:"required"`
	Fusion   FusionConfig   `mapstructure:"fusion" validate:"required"`
	Clones   ClonesConfig   `mapstructure:"clones" validate:"required"`
	Sources  []SourceConfig `mapstructure:"sources" validate:"required,min=1,dive"`
	Value    ValueConfig    `mapstructure:"value"`
}

// RatingConfig represents the Elo-style rating model parameters.
type RatingConfig struct {
	KFactor         float64 `mapstructure:"k_factor" validate:"required,gt=0"`
	HomeAdvantage   float64 `mapstructure:"home_advantage" validate:"gte=0"`
	MarginScaling   bool    `mapstructure:"margin_scaling"`
	DrawPolicy      string  `mapstructure:"draw_policy" validate:"required,drawpolicy"`
	DrawMass        float64 `mapstructure:"draw_mass" validate:"gte=0,lte=1"`
	DrawParam       float64 `mapstructure:"draw_param" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// AnalogueConfig represents the historical analogue estimator parameters.
type AnalogueConfig struct {
	Tolerance float64 `mapstructure:"tolerance" validate:"required,gt=0,lte=1"`
	MinSample int     `mapstructure:"min_sample" validate:"required,gt=0"`
}

// FusionConfig represents the ensemble weighting constants. Empirically
// chosen values; exact numbers are non-normative.
type FusionConfig struct {
	RatingBase          float64            `mapstructure:"rating_base" validate:"required,gt=0,lte=1"`
	RatingGapBonus      float64            `mapstructure:"rating_gap_bonus" validate:"gte=0"`
	RatingMaxBonus      float64            `mapstructure:"rating_max_bonus" validate:"gte=0,lte=1"`
	AnalogueBase        float64            `mapstructure:"analogue_base" validate:"required,gt=0,lte=1"`
	AnalogueSampleBonus float64            `mapstructure:"analogue_sample_bonus" validate:"gte=0"`
	AnalogueMaxBonus    float64            `mapstructure:"analogue_max_bonus" validate:"gte=0,lte=1"`
	SourceSharpness     map[string]float64 `mapstructure:"source_sharpness"`
}

// ClonesConfig represents the clone detector parameters.
type ClonesConfig struct {
	RatingWeight      float64 `mapstructure:"rating_weight" validate:"gte=0,lte=1"`
	ProbabilityWeight float64 `mapstructure:"probability_weight" validate:"gte=0,lte=1"`
	MarketWeight      float64 `mapstructure:"market_weight" validate:"gte=0,lte=1"`
	CompetitionWeight float64 `mapstructure:"competition_weight" validate:"gte=0,lte=1"`
	KickoffWeight     float64 `mapstructure:"kickoff_weight" validate:"gte=0,lte=1"`
	RatingScale       float64 `mapstructure:"rating_scale" validate:"required,gt=0"`
	ProbabilityScale  float64 `mapstructure:"probability_scale" validate:"required,gt=0"`
	MarketScale       float64 `mapstructure:"market_scale" validate:"required,gt=0"`
	ScoreThreshold    float64 `mapstructure:"score_threshold" validate:"required,gt=0,lte=1"`
	TimeWindowHours   float64 `mapstructure:"time_window_hours" validate:"required,gt=0"`
}

// SourceConfig represents one configured odds source. The method tag is what
// the source contributes to prediction records (e.g. B365, PINNACLE).
type SourceConfig struct {
	ID        int64  `mapstructure:"id" validate:"required"`
	Name      string `mapstructure:"name" validate:"required"`
	MethodTag string `mapstructure:"method_tag" validate:"required"`
}

// ValueConfig represents value-bet reporting thresholds.
type ValueConfig struct {
	MinExpectedValue float64 `mapstructure:"min_expected_value" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health endpoint configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// ScheduleConfig represents the daemon's cron schedules (UTC).
type ScheduleConfig struct {
	Predictions string `mapstructure:"predictions"`
	Clones      string `mapstructure:"clones"`
}

// RatingCacheTTL returns the rating read-cache TTL as a duration.
func (c *RatingConfig) RatingCacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SourceByID returns the configured source with the given identifier.
func (e *EngineConfig) SourceByID(id int64) (SourceConfig, bool) {
	for _, s := range e.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN builds the connection string for the configured database
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode,
	)
}
