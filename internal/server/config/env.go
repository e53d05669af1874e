package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// dotEnvFile is read, when present, before the environment is decoded.
// Variables already set in the process environment win over the file.
var dotEnvFile = ".env"

// EnvConfig mirrors Config for envdecode. It is seeded with the current
// values so that unset variables leave them untouched.
type EnvConfig struct {
	EndpointAddrHTTP string `env:"PERSONAPI_ADDR"`

	DBHost      string `env:"PERSONAPI_DB_HOST"`
	DBPort      int    `env:"PERSONAPI_DB_PORT"`
	DBUser      string `env:"PERSONAPI_DB_USER"`
	DBPassword  string `env:"PERSONAPI_DB_PASSWORD"`
	DBName      string `env:"PERSONAPI_DB_NAME"`
	DBDialect   string `env:"PERSONAPI_DB_DIALECT"`
	DatabaseDSN string `env:"PERSONAPI_DATABASE_DSN"`

	DBMaxOpenConns   int           `env:"PERSONAPI_DB_POOL_MAX"`
	DBMaxIdleConns   int           `env:"PERSONAPI_DB_POOL_MIN"`
	DBAcquireTimeout time.Duration `env:"PERSONAPI_DB_POOL_ACQUIRE"`
	DBIdleTimeout    time.Duration `env:"PERSONAPI_DB_POOL_IDLE"`
	RunMigrations    bool          `env:"PERSONAPI_RUN_MIGRATIONS"`

	SecretKey                   string        `env:"PERSONAPI_SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"PERSONAPI_TOKEN_VALIDITY"`
	BcryptCost                  int           `env:"PERSONAPI_BCRYPT_COST"`
	CookieSecure                bool          `env:"PERSONAPI_COOKIE_SECURE"`

	EmailCheckMode string `env:"PERSONAPI_EMAIL_CHECK"`
	EmailCheckURL  string `env:"PERSONAPI_EMAIL_CHECK_URL"`

	CORSAllowOrigins string `env:"PERSONAPI_CORS_ORIGINS"`
	LogLevel         string `env:"PERSONAPI_LOG_LEVEL"`
}

// parseEnv overlays PERSONAPI_* variables. A malformed value panics, as
// for the JSON and flag layers.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	e := &EnvConfig{
		EndpointAddrHTTP:            config.EndpointAddrHTTP,
		DBHost:                      config.DBHost,
		DBPort:                      config.DBPort,
		DBUser:                      config.DBUser,
		DBPassword:                  config.DBPassword,
		DBName:                      config.DBName,
		DBDialect:                   config.DBDialect,
		DatabaseDSN:                 config.DatabaseDSN,
		DBMaxOpenConns:              config.DBMaxOpenConns,
		DBMaxIdleConns:              config.DBMaxIdleConns,
		DBAcquireTimeout:            config.DBAcquireTimeout,
		DBIdleTimeout:               config.DBIdleTimeout,
		RunMigrations:               config.RunMigrations,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: config.AccessTokenValidityDuration,
		BcryptCost:                  config.BcryptCost,
		CookieSecure:                config.CookieSecure,
		EmailCheckMode:              config.EmailCheckMode,
		EmailCheckURL:               config.EmailCheckURL,
		CORSAllowOrigins:            strings.Join(config.CORSAllowOrigins, ","),
		LogLevel:                    config.LogLevel,
	}

	// StrictDecode reports ErrInvalidTarget when no variable is set.
	if err := envdecode.StrictDecode(e); err != nil {
		if errors.Is(err, envdecode.ErrInvalidTarget) {
			return
		}
		panic(err)
	}

	config.EndpointAddrHTTP = e.EndpointAddrHTTP
	config.DBHost = e.DBHost
	config.DBPort = e.DBPort
	config.DBUser = e.DBUser
	config.DBPassword = e.DBPassword
	config.DBName = e.DBName
	config.DBDialect = e.DBDialect
	config.DatabaseDSN = e.DatabaseDSN
	config.DBMaxOpenConns = e.DBMaxOpenConns
	config.DBMaxIdleConns = e.DBMaxIdleConns
	config.DBAcquireTimeout = e.DBAcquireTimeout
	config.DBIdleTimeout = e.DBIdleTimeout
	config.RunMigrations = e.RunMigrations
	config.SecretKey = e.SecretKey
	config.AccessTokenValidityDuration = e.AccessTokenValidityDuration
	config.BcryptCost = e.BcryptCost
	config.CookieSecure = e.CookieSecure
	config.EmailCheckMode = e.EmailCheckMode
	config.EmailCheckURL = e.EmailCheckURL
	config.CORSAllowOrigins = splitList(e.CORSAllowOrigins)
	config.LogLevel = e.LogLevel
}
