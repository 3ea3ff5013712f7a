package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Storage   StorageConfig   `yaml:"storage"`
	Export    ExportConfig    `yaml:"export"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

// StorageConfig selects the key-value backend: sqlite, redis, postgres or memory.
type StorageConfig struct {
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	PostgresURL   string `yaml:"postgres_url"`
}

type ExportConfig struct {
	Dir         string `yaml:"dir"`
	Delimiter   string `yaml:"delimiter"`
	OrdinalSort string `yaml:"ordinal_sort"`
}

type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "pirarucu.db",
		},
		Export: ExportConfig{
			Dir:         "exports",
			Delimiter:   "semicolon",
			OrdinalSort: "lexical",
		},
		Refresh: RefreshConfig{
			Interval: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PIRARUCU_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PIRARUCU_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PIRARUCU_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PIRARUCU_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("PIRARUCU_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if backend := os.Getenv("PIRARUCU_STORAGE"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dbPath := os.Getenv("PIRARUCU_DB_PATH"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if addr := os.Getenv("PIRARUCU_REDIS_ADDR"); addr != "" {
		cfg.Storage.RedisAddr = addr
	}
	if password := os.Getenv("PIRARUCU_REDIS_PASSWORD"); password != "" {
		cfg.Storage.RedisPassword = password
	}
	if dbStr := os.Getenv("PIRARUCU_REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid PIRARUCU_REDIS_DB: %w", err)
		}
		cfg.Storage.RedisDB = db
	}
	if url := os.Getenv("PIRARUCU_POSTGRES_URL"); url != "" {
		cfg.Storage.PostgresURL = url
	}
	if dir := os.Getenv("PIRARUCU_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}
	if delimiter := os.Getenv("PIRARUCU_EXPORT_DELIMITER"); delimiter != "" {
		cfg.Export.Delimiter = delimiter
	}
	if order := os.Getenv("PIRARUCU_ORDINAL_SORT"); order != "" {
		cfg.Export.OrdinalSort = order
	}
	if intervalStr := os.Getenv("PIRARUCU_REFRESH_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return fmt.Errorf("invalid PIRARUCU_REFRESH_INTERVAL: %w", err)
		}
		cfg.Refresh.Interval = interval
	}
	if level := os.Getenv("PIRARUCU_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

// Validate rejects unknown enum values.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Storage.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage backend redis requires redis_addr")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage backend postgres requires postgres_url")
		}
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	switch c.Export.OrdinalSort {
	case "lexical", "numeric":
	default:
		return fmt.Errorf("invalid ordinal sort %q", c.Export.OrdinalSort)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
