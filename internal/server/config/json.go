package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/personapi/internal/flagx"
	"github.com/dmitrijs2005/personapi/internal/timex"
)

// JsonConfig is the on-disk form of Config. Pointer fields distinguish
// "absent" from a zero value, so a partial file only overrides what it
// names. Durations accept "30s" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP *string `json:"endpoint_addr_http"`

	DBHost      *string `json:"db_host"`
	DBPort      *int    `json:"db_port"`
	DBUser      *string `json:"db_user"`
	DBPassword  *string `json:"db_password"`
	DBName      *string `json:"db_name"`
	DBDialect   *string `json:"db_dialect"`
	DatabaseDSN *string `json:"database_dsn"`

	DBMaxOpenConns   *int            `json:"db_pool_max"`
	DBMaxIdleConns   *int            `json:"db_pool_min"`
	DBAcquireTimeout *timex.Duration `json:"db_pool_acquire"`
	DBIdleTimeout    *timex.Duration `json:"db_pool_idle"`
	RunMigrations    *bool           `json:"run_migrations"`

	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	CookieSecure                *bool           `json:"cookie_secure"`

	EmailCheckMode *string `json:"email_check_mode"`
	EmailCheckURL  *string `json:"email_check_url"`

	CORSAllowOrigins []string `json:"cors_allow_origins"`
	LogLevel         *string  `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Without the flag nothing is loaded. An unreadable file or invalid JSON
// panics: the server must not start with a half-read configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)

	setString(&config.DBHost, c.DBHost)
	setInt(&config.DBPort, c.DBPort)
	setString(&config.DBUser, c.DBUser)
	setString(&config.DBPassword, c.DBPassword)
	setString(&config.DBName, c.DBName)
	setString(&config.DBDialect, c.DBDialect)
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	if c.DBAcquireTimeout != nil {
		config.DBAcquireTimeout = c.DBAcquireTimeout.Duration
	}
	if c.DBIdleTimeout != nil {
		config.DBIdleTimeout = c.DBIdleTimeout.Duration
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}

	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}

	setString(&config.EmailCheckMode, c.EmailCheckMode)
	setString(&config.EmailCheckURL, c.EmailCheckURL)

	if c.CORSAllowOrigins != nil {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
