package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	Directory DirectoryConfig
	Sink      SinkConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port       string
	Production bool
	StaticDir  string // optional kiosk web pages, served as-is
	TLSCert    string
	TLSKey     string
}

type SessionConfig struct {
	Backend       string // memory | redis
	TTL           time.Duration
	SweepInterval time.Duration
	RedisAddr     string
	RedisPassword string
}

type DirectoryConfig struct {
	Backend     string // sqlite | postgres
	SQLitePath  string // empty = derived from the production flag
	PostgresDSN string
	Seed        bool // seed demo clients into an empty sqlite directory
}

type SinkConfig struct {
	ResultFile    string
	PrinterCmd    string
	PrinterArgs   []string
	ArtifactFiles []string // batch files scanned for an issued card's line
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from the environment (prefix KIOSK_,
// dots become underscores: KIOSK_SESSION_TTL, KIOSK_DIRECTORY_BACKEND, ...)
// on top of the built-in defaults.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.production", false)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "10m")
	v.SetDefault("session.sweep_interval", "1m")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")

	v.SetDefault("directory.backend", "sqlite")
	v.SetDefault("directory.sqlite_path", "")
	v.SetDefault("directory.postgres_dsn", "")
	v.SetDefault("directory.seed", true)

	v.SetDefault("sink.result_file", "")
	v.SetDefault("sink.printer_cmd", "")
	v.SetDefault("sink.printer_args", []string{})
	v.SetDefault("sink.artifact_files", []string{})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetEnvPrefix("KIOSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port:       v.GetString("server.port"),
			Production: v.GetBool("server.production"),
			StaticDir:  v.GetString("server.static_dir"),
			TLSCert:    v.GetString("server.tls_cert"),
			TLSKey:     v.GetString("server.tls_key"),
		},
		Session: SessionConfig{
			Backend:       v.GetString("session.backend"),
			TTL:           v.GetDuration("session.ttl"),
			SweepInterval: v.GetDuration("session.sweep_interval"),
			RedisAddr:     v.GetString("session.redis_addr"),
			RedisPassword: v.GetString("session.redis_password"),
		},
		Directory: DirectoryConfig{
			Backend:     v.GetString("directory.backend"),
			SQLitePath:  v.GetString("directory.sqlite_path"),
			PostgresDSN: v.GetString("directory.postgres_dsn"),
			Seed:        v.GetBool("directory.seed"),
		},
		Sink: SinkConfig{
			ResultFile:    v.GetString("sink.result_file"),
			PrinterCmd:    v.GetString("sink.printer_cmd"),
			PrinterArgs:   v.GetStringSlice("sink.printer_args"),
			ArtifactFiles: v.GetStringSlice("sink.artifact_files"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}

	switch c.Directory.Backend {
	case "sqlite":
	case "postgres":
		if c.Directory.PostgresDSN == "" {
			return fmt.Errorf("config: postgres directory requires a dsn")
		}
	default:
		return fmt.Errorf("config: unknown directory backend %q", c.Directory.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("config: sweep interval must be positive")
	}

	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("config: tls cert and key must be set together")
	}

	return nil
}

// DatabasePath resolves the sqlite file location. Configured path wins;
// otherwise production deployments write under /tmp and development keeps
// the file next to the binary.
func (c DirectoryConfig) DatabasePath(production bool) string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	if production {
		return filepath.Join("/tmp", "database.sqlite")
	}
	return filepath.Join("db", "database.sqlite")
}
