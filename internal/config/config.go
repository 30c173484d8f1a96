package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins []string

	Admin AdminSeed

	// env values that were set but did not parse
	parseErrs []error
}

// AdminSeed describes an administrator account created at startup when
// no account with that email exists yet. Empty Email disables seeding.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// LoadDotEnv loads path into the process environment if the file exists.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() Config {
	var e envReader
	cfg := Config{
		ServiceName: e.str("SERVICE_NAME", "blog"),
		ServerPort:  e.integer("SERVER_PORT", 8080),
		LogLevel:    e.str("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(e.str("DB_DRIVER", "postgres")),
		DatabaseURL: e.str("DATABASE_URL", ""),

		JWTSecret:  []byte(e.str("JWT_SECRET", "")),
		TokenTTL:   e.hours("TOKEN_TTL_HOURS", 24),
		BcryptCost: e.integer("BCRYPT_COST", 10),

		KafkaBrokers: e.list("KAFKA_BROKERS"),

		ESURL:      e.str("ES_URL", ""),
		ESUser:     e.str("ES_USER", ""),
		ESPassword: e.str("ES_PASSWORD", ""),
		ESIndex:    e.str("ES_INDEX", "posts"),

		CORSOrigins: e.list("CORS_ORIGINS"),

		Admin: AdminSeed{
			Username: e.str("ADMIN_USERNAME", "admin"),
			Email:    e.str("ADMIN_EMAIL", ""),
			Password: e.str("ADMIN_PASSWORD", ""),
		},
	}
	cfg.parseErrs = e.errs
	return cfg
}

func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be postgres or sqlite"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL_HOURS must be positive"))
	}
	if c.Admin.Email != "" && strings.TrimSpace(c.Admin.Password) == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}

// envReader reads typed values from the environment. A set but
// unparsable value falls back to the default and is remembered so
// Validate can report it.
type envReader struct {
	errs []error
}

func (e *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (e *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (e *envReader) hours(key string, def int) time.Duration {
	return time.Duration(e.integer(key, def)) * time.Hour
}

// list splits a comma separated value, dropping blanks.
func (e *envReader) list(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
