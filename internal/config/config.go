package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "SHOPIFY_SEO_CONFIG"
	modelEnv          = "SHOPIFY_SEO_MODEL"
	maxTitleLengthEnv = "SHOPIFY_SEO_MAX_TITLE_LENGTH"
	tempDirEnv        = "SHOPIFY_SEO_TEMP_DIR"
	apiTimeoutEnv     = "SHOPIFY_SEO_API_TIMEOUT"
	maxRetriesEnv     = "SHOPIFY_SEO_MAX_RETRIES"
	databaseDSNEnv    = "DATABASE_DSN"
	redisAddrEnv      = "REDIS_ADDR"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the upload service listener.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"maxUploadMB"`
}

// MaxUploadBytes converts the configured cap into bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// PipelineConfig carries the tunables every pipeline stage reads.
type PipelineConfig struct {
	MaxTitleLength int    `yaml:"maxTitleLength"`
	APITimeout     int    `yaml:"apiTimeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
	Workers        int    `yaml:"workers"`
	TempDir        string `yaml:"tempDir"`
}

// Timeout resolves the per-attempt backend deadline.
func (p PipelineConfig) Timeout() time.Duration {
	return time.Duration(p.APITimeout) * time.Second
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// DatabaseConfig describes the optional run-history Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig describes the optional Redis-backed job store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CleanupConfig drives the temp-directory sweeper.
type CleanupConfig struct {
	RetentionMinutes int `yaml:"retentionMinutes"`
	IntervalMinutes  int `yaml:"intervalMinutes"`
}

// Retention resolves how long processed files stay on disk.
func (c CleanupConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

// Interval resolves how often the sweeper wakes up.
func (c CleanupConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the SHOPIFY_SEO_CONFIG variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate rejects tunables the pipeline contract forbids. It must pass
// before any run is attempted.
func (c Config) Validate() error {
	if c.Pipeline.MaxTitleLength <= 0 {
		return fmt.Errorf("maxTitleLength must be positive, got %d", c.Pipeline.MaxTitleLength)
	}
	if c.Pipeline.APITimeout <= 0 {
		return fmt.Errorf("apiTimeoutSeconds must be positive, got %d", c.Pipeline.APITimeout)
	}
	if c.Pipeline.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must not be negative, got %d", c.Pipeline.MaxRetries)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Pipeline.Workers)
	}
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(maxTitleLengthEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxTitleLength = n
		}
	}

	if v := os.Getenv(tempDirEnv); v != "" {
		c.Pipeline.TempDir = v
	}

	if v := os.Getenv(apiTimeoutEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.APITimeout = n
		}
	}

	if v := os.Getenv(maxRetriesEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxRetries = n
		}
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.MaxUploadMB > 0 {
		base.Server.MaxUploadMB = override.Server.MaxUploadMB
	}

	if override.Pipeline.MaxTitleLength > 0 {
		base.Pipeline.MaxTitleLength = override.Pipeline.MaxTitleLength
	}
	if override.Pipeline.APITimeout > 0 {
		base.Pipeline.APITimeout = override.Pipeline.APITimeout
	}
	if override.Pipeline.MaxRetries > 0 {
		base.Pipeline.MaxRetries = override.Pipeline.MaxRetries
	}
	if override.Pipeline.Workers > 0 {
		base.Pipeline.Workers = override.Pipeline.Workers
	}
	if override.Pipeline.TempDir != "" {
		base.Pipeline.TempDir = override.Pipeline.TempDir
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Redis.Addr != "" {
		base.Redis = override.Redis
	}

	if override.Cleanup.RetentionMinutes > 0 {
		base.Cleanup.RetentionMinutes = override.Cleanup.RetentionMinutes
	}
	if override.Cleanup.IntervalMinutes > 0 {
		base.Cleanup.IntervalMinutes = override.Cleanup.IntervalMinutes
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":5080",
			MaxUploadMB: 16,
		},
		Pipeline: PipelineConfig{
			MaxTitleLength: 53,
			APITimeout:     30,
			MaxRetries:     3,
			Workers:        4,
			TempDir:        "temp",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "gpt-oss:latest",
		},
		Cleanup: CleanupConfig{
			RetentionMinutes: 60,
			IntervalMinutes:  10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
