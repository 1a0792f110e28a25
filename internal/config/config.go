package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the server settings. Values come from the environment (and an
// optional .env file) and may be overridden by command-line flags.
type Config struct {
	DBPath        string        `env:"ACHADOS_DB" envDefault:"achados.sqlite3"`
	Addr          string        `env:"ACHADOS_ADDR" envDefault:":8080"`
	AdminUser     string        `env:"ACHADOS_ADMIN_USER" envDefault:"admin"`
	LogPath       string        `env:"ACHADOS_LOG"`
	LogLevel      string        `env:"ACHADOS_LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"ACHADOS_LOG_FORMAT" envDefault:"text"`
	JWTSecret     string        `env:"ACHADOS_JWT_SECRET"`
	TokenTTL      time.Duration `env:"ACHADOS_TOKEN_TTL" envDefault:"168h"`
	SecureCookies bool          `env:"ACHADOS_SECURE_COOKIES"`
}

const usage = `Usage: achados [flags]

Flags:
  -d, -db <path>          SQLite database path (default: achados.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        staff username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -log-level <level>      debug, info, warn or error (default: info)
  -log-format <format>    text or json (default: text)
  -token-ttl <duration>   API and session token lifetime (default: 168h)
  -h, -help               show this help and exit

Every flag has an ACHADOS_* environment variable counterpart; a .env file in
the working directory is loaded first.
`

// Load reads .env (if present) and the environment, then applies flags from
// args. Flags win over the environment.
func Load(args []string, out io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	fs := flag.NewFlagSet("achados", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.AdminUser, "user", cfg.AdminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", cfg.AdminUser, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "")
	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}
	if strings.TrimSpace(c.AdminUser) == "" {
		errs = append(errs, errors.New("admin username must not be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}
