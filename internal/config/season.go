package config

import "time"

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	HTTPPort string
	Name     string
	LogLevel string // debug, info, warn, error
}

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig holds the redis connection settings
type RedisConfig struct {
	Host string
	Port string
}

// RetryConfig bounds the orchestrator's gateway retries
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// LogConfig holds file-logging settings
type LogConfig struct {
	Filename      string
	Format        string // json or console
	EnableConsole bool
}

// SeasonServiceConfig holds all configuration for the season service
type SeasonServiceConfig struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	RepoType       string // db or memory
	Retry          RetryConfig
	TieBreakPolicy string // revote, duel, random, fixed_order
	Log            LogConfig
}

// LoadSeasonServiceConfig loads configuration for the season service
func LoadSeasonServiceConfig() *SeasonServiceConfig {
	return &SeasonServiceConfig{
		Server: ServerConfig{
			HTTPPort: getEnv("SEASON_HTTP_PORT", "8080"),
			Name:     "season-service",
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "castaway_user"),
			Password: getEnv("DB_PASSWORD", "castaway_pass"),
			Name:     getEnv("DB_NAME", "castaway_db"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		RepoType: getEnv("SEASON_REPO_TYPE", "db"),
		Retry: RetryConfig{
			MaxAttempts: getEnvInt("GATEWAY_RETRY_MAX_ATTEMPTS", 5),
			BaseDelay:   getEnvDuration("GATEWAY_RETRY_BASE_DELAY", 500*time.Millisecond),
			MaxDelay:    getEnvDuration("GATEWAY_RETRY_MAX_DELAY", 30*time.Second),
		},
		// Ties are surfaced, not silently resolved, unless the operator
		// explicitly opts into the fixed_order fallback.
		TieBreakPolicy: getEnv("TIE_BREAK_POLICY", "revote"),
		Log: LogConfig{
			Filename:      getEnv("LOG_FILE", "logs/season.log"),
			Format:        getEnv("LOG_FORMAT", "json"),
			EnableConsole: getEnvBool("LOG_CONSOLE", true),
		},
	}
}
