package config

import "fmt"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Web      WebConfig      `yaml:"web"`
	Client   ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	IP          string   `yaml:"ip"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// ClientConfig drives the sync client and its local state store.
type ClientConfig struct {
	APIBaseURL string            `yaml:"api_base_url"`
	Store      ClientStoreConfig `yaml:"store"`
}

type ClientStoreConfig struct {
	Driver string           `yaml:"driver"`
	File   FileStoreConfig  `yaml:"file,omitempty"`
	Redis  RedisStoreConfig `yaml:"redis,omitempty"`
}

type FileStoreConfig struct {
	Path string `yaml:"path"`
}

type RedisStoreConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:          "0.0.0.0",
			Port:        3000,
			CORSOrigins: []string{"http://localhost:8080"},
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "./logs",
			File:  "eyewear-server.log",
		},
		Database: DatabaseConfig{
			Path: "./data/eyewear.db",
		},
		Web: WebConfig{
			Enabled:   false,
			StaticDir: "./web",
		},
		Client: ClientConfig{
			APIBaseURL: "http://localhost:3000/api",
			Store: ClientStoreConfig{
				Driver: "file",
				File:   FileStoreConfig{Path: "./data/eyewear-tracker-data.json"},
			},
		},
	}
}

// Validate checks ranges that would make the process unable to start.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Client.Store.Driver {
	case "", "file", "redis", "memory":
	default:
		return fmt.Errorf("unknown client store driver: %s", c.Client.Store.Driver)
	}
	return nil
}
