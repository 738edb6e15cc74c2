// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Database DatabaseConfig          `mapstructure:"database"`
	Sources  map[string]SourceConfig `mapstructure:"sources"`
	Guidance GuidanceConfig          `mapstructure:"guidance"`
	Rotation RotationConfig          `mapstructure:"rotation"`
	Registry RegistryConfig          `mapstructure:"registry"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SourceConfig holds the per-remote-source settings. Timeout is an
// independent budget per source, not a pipeline-wide one.
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
	Enabled bool   `mapstructure:"enabled"`
}

// GuidanceConfig holds settings for the normalize/cache stages.
type GuidanceConfig struct {
	CacheNamespace   string `mapstructure:"cache_namespace"`
	OverviewMaxRunes int    `mapstructure:"overview_max_runes"`
}

// RotationConfig holds settings for the optional-card rotation selector.
type RotationConfig struct {
	Pool    []string `mapstructure:"pool"`
	MinTags int      `mapstructure:"min_tags"`
	MaxTags int      `mapstructure:"max_tags"`
}

// RegistryConfig points at the source registry document.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
