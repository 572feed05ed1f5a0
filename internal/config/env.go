package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries everything the server needs at startup. Values come from an
// optional YAML file (OPSHUB_CONFIG) with environment variables layered on
// top, so deployments can override single keys without editing the file.
type Config struct {
	AppAddr     string   `yaml:"app_addr"`
	GinMode     string   `yaml:"gin_mode"`
	LogLevel    string   `yaml:"log_level"`
	JWTSecret   string   `yaml:"jwt_secret"`
	CORSOrigins []string `yaml:"cors_origins"`

	DB DBConfig `yaml:"db"`
}

type DBConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
}

// DSN renders the MySQL connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		d.User, d.Password, d.Host, d.Name)
}

// Load builds the effective configuration.
func Load() (Config, error) {
	cfg := Config{
		AppAddr:  ":8080",
		LogLevel: "info",
		DB: DBConfig{
			User: "root",
			Host: "127.0.0.1:3306",
			Name: "opshub",
		},
	}

	if path := strings.TrimSpace(os.Getenv("OPSHUB_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("jwt secret is not configured (set OPSHUB_JWT_SECRET or jwt_secret)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("APP_ADDR"); v != "" {
		cfg.AppAddr = v
	}
	if v := env("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := env("OPSHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("OPSHUB_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := env("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := env("OPSHUB_DB_USER"); v != "" {
		cfg.DB.User = v
	}
	if v := env("OPSHUB_DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := env("OPSHUB_DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := env("OPSHUB_DB_NAME"); v != "" {
		cfg.DB.Name = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
