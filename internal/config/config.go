package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/leak-priority-service/internal/pkg/validator"
)

type Config struct {
	Source   SourceConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Log      LogConfig
	Worker   WorkerConfig
	Scoring  ScoringConfig
}

type SourceConfig struct {
	APIURL         string `validate:"required,url"`
	Token          string `validate:"required"`
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"required,min=1,max=65535"`
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	SyncInterval  time.Duration
	ScoreInterval time.Duration
	RunLockTTL    time.Duration
}

type ScoringConfig struct {
	ProximityRadiusMeters  float64
	RecentRepairedWindow   time.Duration
	ActiveNeighborWeight   int
	RepairedNeighborWeight int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Source: SourceConfig{
			APIURL:         viper.GetString("KOBO_API_URL"),
			Token:          viper.GetString("KOBO_TOKEN"),
			RequestTimeout: time.Duration(viper.GetInt("KOBO_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			SyncInterval:  time.Duration(viper.GetInt("WORKER_SYNC_INTERVAL")) * time.Second,
			ScoreInterval: time.Duration(viper.GetInt("WORKER_SCORE_INTERVAL")) * time.Second,
			RunLockTTL:    time.Duration(viper.GetInt("WORKER_RUN_LOCK_TTL")) * time.Second,
		},
		Scoring: ScoringConfig{
			ProximityRadiusMeters:  viper.GetFloat64("SCORING_PROXIMITY_RADIUS"),
			RecentRepairedWindow:   time.Duration(viper.GetInt("SCORING_RECENT_REPAIRED_DAYS")) * 24 * time.Hour,
			ActiveNeighborWeight:   viper.GetInt("SCORING_ACTIVE_WEIGHT"),
			RepairedNeighborWeight: viper.GetInt("SCORING_REPAIRED_WEIGHT"),
		},
	}

	// Set default values if not provided
	if cfg.Source.RequestTimeout == 0 {
		cfg.Source.RequestTimeout = 30 * time.Second
	}
	if cfg.Worker.SyncInterval == 0 {
		cfg.Worker.SyncInterval = 5 * time.Minute
	}
	if cfg.Worker.ScoreInterval == 0 {
		cfg.Worker.ScoreInterval = 15 * time.Minute
	}
	if cfg.Worker.RunLockTTL == 0 {
		cfg.Worker.RunLockTTL = 10 * time.Minute
	}
	if cfg.Scoring.ProximityRadiusMeters == 0 {
		cfg.Scoring.ProximityRadiusMeters = 100
	}
	if cfg.Scoring.RecentRepairedWindow == 0 {
		cfg.Scoring.RecentRepairedWindow = 30 * 24 * time.Hour
	}
	// The weights check IsSet rather than the zero value: an explicit
	// weight of 0 is a valid way to switch one scoring term off.
	if !viper.IsSet("SCORING_ACTIVE_WEIGHT") {
		cfg.Scoring.ActiveNeighborWeight = 3
	}
	if !viper.IsSet("SCORING_REPAIRED_WEIGHT") {
		cfg.Scoring.RepairedNeighborWeight = 5
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
