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
	DB        DBConfig        `yaml:"db"`
	Vault     VaultConfig     `yaml:"vault"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type VaultConfig struct {
	// Path is the filesystem root of the note vault.
	Path string `yaml:"path"`
	// Watch enables the filesystem watcher that marks changed notes stale.
	Watch bool `yaml:"watch"`
}

type CacheConfig struct {
	// VectorPath is the vector index persistence directory. Empty means
	// in-memory only.
	VectorPath string `yaml:"vector_path"`
	// VectorCompress enables gzip compression for persisted vectors.
	VectorCompress bool `yaml:"vector_compress"`
}

type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type FetchConfig struct {
	// TranscriptEndpoint is the video transcript API. Empty disables
	// transcript fetching.
	TranscriptEndpoint string        `yaml:"transcript_endpoint"`
	Timeout            time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path appends logs to a file in addition to stderr. Empty disables it.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	// Mode is "stdio", "http", or "jsonrpc".
	Mode string `yaml:"mode"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8391,
		},
		DB: DBConfig{
			Path: "notechat.db",
		},
		Vault: VaultConfig{
			Path:  ".",
			Watch: true,
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
		},
		Fetch: FetchConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
	}

	if path := os.Getenv("NOTECHAT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("NOTECHAT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("NOTECHAT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NOTECHAT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("NOTECHAT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if vaultPath := os.Getenv("NOTECHAT_VAULT_PATH"); vaultPath != "" {
		cfg.Vault.Path = vaultPath
	}
	if vectorPath := os.Getenv("NOTECHAT_VECTOR_PATH"); vectorPath != "" {
		cfg.Cache.VectorPath = vectorPath
	}
	if provider := os.Getenv("NOTECHAT_EMBEDDING_PROVIDER"); provider != "" {
		cfg.Embedding.Provider = provider
	}
	if token := os.Getenv("NOTECHAT_AUTH_TOKEN"); token != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Token = token
	}
	if level := os.Getenv("NOTECHAT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("NOTECHAT_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("NOTECHAT_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}

	return cfg, nil
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
