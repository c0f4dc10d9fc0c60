package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Kiosk    KioskConfig    `mapstructure:"kiosk"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenTTLMin int    `mapstructure:"token_ttl_min"`
}

type SyncConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// KioskConfig drives the kiosk-agent binary: where the central service lives,
// which token to present, and where the local SQLite dataset sits.
type KioskConfig struct {
	ServerURL       string `mapstructure:"server_url"`
	Token           string `mapstructure:"token"`
	LocalDBPath     string `mapstructure:"local_db_path"`
	SyncIntervalMin int    `mapstructure:"sync_interval_min"`
}

// Load reads config.yaml plus environment overrides. A missing config file is
// fine; defaults and env vars cover local development.
func Load() *Config {
	// .env is optional, used in development only
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/checkin")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "checkin_user")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "checkin_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_min", 720)
	v.SetDefault("sync.retention_days", 90)
	v.SetDefault("kiosk.server_url", "http://localhost:8080")
	v.SetDefault("kiosk.local_db_path", "kiosk.db")
	v.SetDefault("kiosk.sync_interval_min", 15)

	v.SetEnvPrefix("CHECKIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Failed to read config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("WARNING: auth.jwt_secret is empty, tokens will not survive restarts securely")
	}

	return &cfg
}
