// Package config handles configuration for the person API server,
// including defaults, JSON overlay, environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Email verification modes accepted in EmailCheckMode.
const (
	EmailCheckMX   = "mx"
	EmailCheckHTTP = "http"
	EmailCheckNone = "none"
)

// Config holds runtime settings for the person API server. It is loaded
// once at startup and treated as read-only afterwards.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST endpoint.
//   - DBHost .. DBDialect: relational database coordinates.
//   - DatabaseDSN: full pgx DSN; when set it wins over the DB* fields.
//   - DBMaxOpenConns / DBMaxIdleConns: pool max / min connections.
//   - DBAcquireTimeout: upper bound for a single repository call.
//   - DBIdleTimeout: idle connections older than this are closed.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: token lifetime.
//   - BcryptCost: work factor for password hashing.
//   - EmailCheckMode / EmailCheckURL: registration email gate.
type Config struct {
	EndpointAddrHTTP string

	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBDialect   string
	DatabaseDSN string

	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBAcquireTimeout time.Duration
	DBIdleTimeout    time.Duration
	RunMigrations    bool

	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	CookieSecure                bool

	EmailCheckMode string
	EmailCheckURL  string

	CORSAllowOrigins []string
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"

	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBUser = "postgres"
	c.DBPassword = "post"
	c.DBName = "customersDB"
	c.DBDialect = "postgres"
	c.DatabaseDSN = ""

	c.DBMaxOpenConns = 5
	c.DBMaxIdleConns = 0
	c.DBAcquireTimeout = 30 * time.Second
	c.DBIdleTimeout = 10 * time.Second
	c.RunMigrations = true

	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.BcryptCost = 8
	c.CookieSecure = false

	c.EmailCheckMode = EmailCheckMX
	c.EmailCheckURL = ""

	c.CORSAllowOrigins = []string{"*"}
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}

// DSN returns the connection string used to open the pool.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + strconv.Itoa(c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.DBDialect != "postgres" {
		return fmt.Errorf("unsupported db dialect %q", c.DBDialect)
	}
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("db pool max must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("db pool min %d must be within [0, %d]", c.DBMaxIdleConns, c.DBMaxOpenConns)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return errors.New("access token validity must be positive")
	}

	switch c.EmailCheckMode {
	case EmailCheckMX, EmailCheckNone:
	case EmailCheckHTTP:
		if c.EmailCheckURL == "" {
			return errors.New("email check url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown email check mode %q", c.EmailCheckMode)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
