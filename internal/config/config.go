package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver    string
	DBDSN       string
	DBAutoSetup bool

	ServerPort  string
	StaticDir   string
	CORSOrigins []string

	// AuthRateLimit is a ulule/limiter formatted rate, e.g. "20-M".
	AuthRateLimit string

	SendGridAPIKey string
	MailFromName   string
	MailFromEmail  string

	LogLevel string
	LogJSON  bool
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:       getEnv("DB_DRIVER", DriverSQLite),
		DBDSN:          getEnv("DB_DSN", "civic_sense.db"),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		StaticDir:      getEnv("STATIC_DIR", "web"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		AuthRateLimit:  getEnv("AUTH_RATE_LIMIT", "20-M"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Civic Sense"),
		MailFromEmail:  getEnv("MAIL_FROM_EMAIL", "no-reply@civicsense.local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DBAutoSetup, err = getBool("DB_AUTO_SETUP", false); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = getBool("LOG_JSON", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is not set")
	}
	if _, err := limiter.NewRateFromFormatted(c.AuthRateLimit); err != nil {
		return fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
	}
	return nil
}

func getEnv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getBool(k string, d bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
