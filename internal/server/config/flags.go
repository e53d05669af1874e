package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/personapi/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g. ":8080")
//	-d string              full PostgreSQL DSN
//	-host, -port, -user, -password, -db
//	                       database coordinates used when -d is empty
//	-pool-max, -pool-min   pool bounds
//	-pool-acquire, -pool-idle
//	                       pool timeouts (Go durations)
//	-m bool                run embedded migrations on start
//	-s string              JWT HMAC secret key
//	-t int                 access token validity, minutes
//	-cost int              bcrypt cost
//	-cookie-secure bool    mark the token cookie Secure
//	-email-check string    mx | http | none
//	-email-check-url string
//	-cors string           comma separated allowed origins
//	-log-level string
//
// Only the flags declared here are passed to the parser, so -c / -config
// and foreign flags do not break it.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DBHost, "host", config.DBHost, "database host")
	fs.IntVar(&config.DBPort, "port", config.DBPort, "database port")
	fs.StringVar(&config.DBUser, "user", config.DBUser, "database user")
	fs.StringVar(&config.DBPassword, "password", config.DBPassword, "database password")
	fs.StringVar(&config.DBName, "db", config.DBName, "database name")

	fs.IntVar(&config.DBMaxOpenConns, "pool-max", config.DBMaxOpenConns, "max open connections")
	fs.IntVar(&config.DBMaxIdleConns, "pool-min", config.DBMaxIdleConns, "idle connections kept")
	fs.DurationVar(&config.DBAcquireTimeout, "pool-acquire", config.DBAcquireTimeout, "per-call database timeout")
	fs.DurationVar(&config.DBIdleTimeout, "pool-idle", config.DBIdleTimeout, "idle connection lifetime")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations on start")

	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "send token cookie only over https")

	fs.StringVar(&config.EmailCheckMode, "email-check", config.EmailCheckMode, "email verification mode: mx, http, none")
	fs.StringVar(&config.EmailCheckURL, "email-check-url", config.EmailCheckURL, "email verification API url")

	cors := fs.String("cors", strings.Join(config.CORSAllowOrigins, ","), "allowed CORS origins, comma separated")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "cors":
			config.CORSAllowOrigins = splitList(*cors)
		}
	})
}
