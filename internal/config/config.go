// Package config loads st8 settings from $ST8_HOME/config.yaml and ST8_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the home directory.
const FileName = "config.yaml"

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// Server roster backends.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

const defaultConfigYAML = `# st8 configuration
#
# Relative paths are resolved against the st8 home directory.

store:
  # sqlite | json | postgres
  driver: sqlite
  sqlite_path: st8.db
  json_path: workspace.json
  # Leave empty to read the DSN from the OS keyring (st8 db set-dsn).
  postgres_dsn: ""

server:
  host: 127.0.0.1
  port: 5000
  # file | mongo
  backend: file
  data_file: data/agents.json
  mongo_uri: mongodb://localhost:27017
  mongo_database: planningDB
  max_body_bytes: 1048576

sync:
  # Roster endpoint; empty disables the remote fetch.
  endpoint: ""
  fallback_file: data/agents.json
  timeout_ms: 5000
  max_retries: 1

log:
  debug: false
  dir: logs
  use_cases: false
`

// StoreConfig selects where the workspace lives.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	JSONPath    string `yaml:"json_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// ServerConfig configures `st8 serve`.
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Backend       string `yaml:"backend"`
	DataFile      string `yaml:"data_file"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// SyncConfig configures the remote roster client.
type SyncConfig struct {
	Endpoint     string `yaml:"endpoint"`
	FallbackFile string `yaml:"fallback_file"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	MaxRetries   int    `yaml:"max_retries"`
}

// LogConfig configures the process log and use-case telemetry.
type LogConfig struct {
	Debug    bool   `yaml:"debug"`
	Dir      string `yaml:"dir"`
	UseCases bool   `yaml:"use_cases"`
}

// Config is the full runtime configuration.
type Config struct {
	// Home is the st8 home directory. It is not read from the file.
	Home   string       `yaml:"-"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Sync   SyncConfig   `yaml:"sync"`
	Log    LogConfig    `yaml:"log"`
}

// HomeDir returns $ST8_HOME or ~/.st8.
func HomeDir() (string, error) {
	if v := os.Getenv("ST8_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".st8"), nil
}

// Default returns the built-in configuration rooted at home.
func Default(home string) *Config {
	return &Config{
		Home: home,
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "st8.db",
			JSONPath:   "workspace.json",
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          5000,
			Backend:       BackendFile,
			DataFile:      filepath.Join("data", "agents.json"),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "planningDB",
			MaxBodyBytes:  1 << 20,
		},
		Sync: SyncConfig{
			FallbackFile: filepath.Join("data", "agents.json"),
			TimeoutMs:    5000,
			MaxRetries:   1,
		},
		Log: LogConfig{Dir: "logs"},
	}
}

// Load reads home/config.yaml when present, applies environment overrides,
// resolves relative paths against home and validates the result.
func Load(home string) (*Config, error) {
	cfg := Default(home)

	path := filepath.Join(home, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.resolvePaths()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes the commented default config.yaml unless one exists.
// It reports whether a file was created.
func WriteDefault(home string) (bool, error) {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return false, err
	}
	path := filepath.Join(home, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ST8_STORE"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("ST8_DB"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv("ST8_POSTGRES_DSN"); v != "" {
		c.Store.PostgresDSN = v
	}
	if v := os.Getenv("ST8_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("ST8_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("ST8_DATA_FILE"); v != "" {
		c.Server.DataFile = v
	}
	if v := os.Getenv("ST8_BACKEND"); v != "" {
		c.Server.Backend = v
	}
	if v := os.Getenv("ST8_MONGO_URI"); v != "" {
		c.Server.MongoURI = v
	}
	if v := os.Getenv("ST8_SYNC_ENDPOINT"); v != "" {
		c.Sync.Endpoint = v
	}
	if v := os.Getenv("ST8_SYNC_FALLBACK"); v != "" {
		c.Sync.FallbackFile = v
	}
	if v := os.Getenv("ST8_SYNC_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Sync.TimeoutMs = n
		}
	}
	if v := os.Getenv("ST8_SYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Sync.MaxRetries = n
		}
	}
	if v := os.Getenv("ST8_DEBUG"); v != "" {
		c.Log.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ST8_LOG_USE_CASES"); v != "" {
		c.Log.UseCases, _ = strconv.ParseBool(v)
	}
}

func (c *Config) applyDefaults() {
	def := Default(c.Home)
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Server.Backend = strings.ToLower(strings.TrimSpace(c.Server.Backend))
	if c.Store.Driver == "" {
		c.Store.Driver = def.Store.Driver
	}
	if c.Server.Backend == "" {
		c.Server.Backend = def.Server.Backend
	}
	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
	if c.Sync.TimeoutMs <= 0 {
		c.Sync.TimeoutMs = def.Sync.TimeoutMs
	}
	if c.Log.Dir == "" {
		c.Log.Dir = def.Log.Dir
	}
}

func (c *Config) resolvePaths() {
	for _, p := range []*string{
		&c.Store.SQLitePath,
		&c.Store.JSONPath,
		&c.Server.DataFile,
		&c.Sync.FallbackFile,
		&c.Log.Dir,
	} {
		*p = c.resolve(*p)
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Home, p)
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverJSON, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q (want sqlite, json or postgres)", c.Store.Driver)
	}
	switch c.Server.Backend {
	case BackendFile, BackendMongo:
	default:
		return fmt.Errorf("unknown server backend %q (want file or mongo)", c.Server.Backend)
	}
	return nil
}
