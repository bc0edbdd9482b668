package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"trivia/internal/trivia/models"
	liststrings "trivia/pkg/platform/strings"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// SourceType selects which adapter serves a configured source.
type SourceType string

const (
	// SourceRelational reads a question row and joins its option rows.
	SourceRelational SourceType = "relational"
	// SourceDelimited reads one pipe-delimited text column.
	SourceDelimited SourceType = "delimited"
	// SourceDocument samples a document with nested localizations.
	SourceDocument SourceType = "document"
	// SourceKeyValue reads a JSON blob stored under a random key.
	SourceKeyValue SourceType = "keyvalue"
)

var validSourceTypes = map[SourceType]bool{
	SourceRelational: true,
	SourceDelimited:  true,
	SourceDocument:   true,
	SourceKeyValue:   true,
}

// Source holds the connection parameters of one backing store. DSN is the
// driver-specific connection string (MySQL DSN, postgres:// URL,
// mongodb:// URI or redis:// URL).
type Source struct {
	Name    string     `yaml:"name"`
	Type    SourceType `yaml:"type"`
	Enabled bool       `yaml:"enabled"`
	DSN     string     `yaml:"dsn"`

	// relational
	Driver string `yaml:"driver,omitempty"`

	// delimited
	Table  string `yaml:"table,omitempty"`
	Column string `yaml:"column,omitempty"`

	// document
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	Language   string `yaml:"language,omitempty"`

	// keyvalue
	KeyPattern string `yaml:"key_pattern,omitempty"`
}

// Output controls where the aggregation document goes.
type Output struct {
	Path        string `yaml:"path"`
	MetricsFile string `yaml:"metrics_file"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Classifier configures the topic classifier.
type Classifier struct {
	Provider string        `yaml:"provider"` // "huggingface", "keyword" or "none"
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Token    string        `yaml:"token,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Kafka configures the optional result publisher.
type Kafka struct {
	Enabled           bool     `yaml:"enabled"`
	Brokers           []string `yaml:"brokers"`
	Topic             string   `yaml:"topic"`
	Partitions        int32    `yaml:"partitions"`
	ReplicationFactor int16    `yaml:"replication_factor"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr"`
}

// RedisConfig carries client options for a Redis-backed source.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config is the single configuration structure handed to every component.
type Config struct {
	Output       Output        `yaml:"output"`
	Log          Log           `yaml:"log"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Classifier   Classifier    `yaml:"classifier"`
	Kafka        Kafka         `yaml:"kafka"`
	Server       Server        `yaml:"server"`
	Sources      []Source      `yaml:"sources"`
}

// EnabledSources returns the enabled sources in configured order.
func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// RedisConfig derives client options for a keyvalue source. A single
// connection is enough since every fetch opens and closes its own client.
func (c *Config) RedisConfig(s Source) RedisConfig {
	return RedisConfig{
		URL:          s.DSN,
		PoolSize:     1,
		MinIdleConns: 0,
		DialTimeout:  c.FetchTimeout,
		ReadTimeout:  c.FetchTimeout,
		WriteTimeout: c.FetchTimeout,
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "trivia", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load builds the configuration from the embedded defaults, the YAML file at
// path (or the default path, if it exists) and TRIVIA_* environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no user config; embedded defaults apply
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Output.Path = getenv("TRIVIA_OUTPUT", cfg.Output.Path)
	cfg.Output.MetricsFile = getenv("TRIVIA_METRICS_FILE", cfg.Output.MetricsFile)
	cfg.Log.Level = getenv("TRIVIA_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("TRIVIA_LOG_FORMAT", cfg.Log.Format)
	cfg.Server.Addr = getenv("TRIVIA_ADDR", cfg.Server.Addr)

	cfg.Classifier.Provider = getenv("TRIVIA_CLASSIFIER_PROVIDER", cfg.Classifier.Provider)
	cfg.Classifier.Token = getenv("TRIVIA_CLASSIFIER_TOKEN", getenv("HF_TOKEN", cfg.Classifier.Token))

	if brokers := liststrings.SplitList(os.Getenv("TRIVIA_KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Kafka.Brokers = brokers
		cfg.Kafka.Enabled = true
	}

	for i := range cfg.Sources {
		key := "TRIVIA_" + strings.ToUpper(cfg.Sources[i].Name) + "_DSN"
		cfg.Sources[i].DSN = getenv(key, cfg.Sources[i].DSN)
	}
}

// Validate checks source types, names and required connection parameters.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	seen := make(map[models.SourceName]bool)
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		name, err := models.ParseSourceName(s.Name)
		if err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if seen[name] {
			return fmt.Errorf("source %q: configured more than once", s.Name)
		}
		seen[name] = true

		if !validSourceTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: relational, delimited, document, keyvalue)", s.Name, s.Type)
		}
		if !s.Enabled {
			continue
		}
		if s.DSN == "" {
			return fmt.Errorf("source %q: dsn is required", s.Name)
		}
		if s.Type == SourceRelational && s.Driver != "mysql" && s.Driver != "postgres" {
			return fmt.Errorf("source %q: driver must be mysql or postgres, got %q", s.Name, s.Driver)
		}
		if s.Type == SourceDocument && (s.Database == "" || s.Collection == "") {
			return fmt.Errorf("source %q: database and collection are required", s.Name)
		}
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka: brokers and topic are required when enabled")
	}
	return nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
