// Package config loads the daemon configuration from layered sources:
// built-in defaults, an optional YAML file, then TASTEMATCH_-prefixed
// environment variables, each layer overriding the one below.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/pooling"
	"github.com/gkoduol/tastematch/rating"
)

// EnvPrefix is stripped from environment variables before mapping them to
// config keys: TASTEMATCH_SERVER_ADDR -> server.addr.
const EnvPrefix = "TASTEMATCH_"

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "TASTEMATCH_CONFIG"

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"tastematch.yaml",
	"tastematch.yml",
	"/etc/tastematch/config.yaml",
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// YelpConfig configures the candidate-search backend. Empty APIKey
// disables candidate search.
type YelpConfig struct {
	APIKey string `koanf:"api_key"`
}

// EmbeddingConfig configures the embedding backend. Empty Token disables
// the similarity path.
type EmbeddingConfig struct {
	Token     string  `koanf:"token"`
	Endpoint  string  `koanf:"endpoint"`
	RateLimit float64 `koanf:"rate_limit"`
}

// EngineConfig tunes the aggregation heuristics.
type EngineConfig struct {
	Blend         string `koanf:"blend"`
	Strategy      string `koanf:"strategy"`
	LikeThreshold int    `koanf:"like_threshold"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the full daemon configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Yelp      YelpConfig      `koanf:"yelp"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Engine    EngineConfig    `koanf:"engine"`
	Logging   LoggingConfig   `koanf:"logging"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Embedding: EmbeddingConfig{
			RateLimit: 2,
		},
		Engine: EngineConfig{
			Blend:         "balanced",
			Strategy:      pooling.Default.Name(),
			LikeThreshold: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration with precedence env > file > defaults.
func Load() (*Config, error) {
	return loadFrom(findConfigFile())
}

func loadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps TASTEMATCH_SERVER_ADDR to server.addr. Only the first
// underscore separates the section from the key, so ENGINE_LIKE_THRESHOLD
// stays engine.like_threshold.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks that named presets exist and bounds are sane.
func (c *Config) Validate() error {
	if _, ok := rating.BlendByName(c.Engine.Blend); !ok {
		return fmt.Errorf("config: unknown blend %q", c.Engine.Blend)
	}
	if _, ok := pooling.ByName(c.Engine.Strategy); !ok {
		return fmt.Errorf("config: unknown pooling strategy %q", c.Engine.Strategy)
	}
	if c.Engine.LikeThreshold < model.RatingMin || c.Engine.LikeThreshold > model.RatingMax {
		return fmt.Errorf("config: like_threshold %d outside %d..%d",
			c.Engine.LikeThreshold, model.RatingMin, model.RatingMax)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	return nil
}
