package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	defaults := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name        string
		args        []string
		expected    func() *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "postgres://dsn", "-host", "h", "-port", "1",
				"-user", "u", "-password", "p", "-db", "n",
				"-pool-max", "7", "-pool-min", "1", "-pool-acquire", "2s", "-pool-idle", "3s", "-m=false",
				"-s", "secret", "-t", "90", "-cost", "10", "-cookie-secure",
				"-email-check", "none", "-email-check-url", "http://e", "-cors", "http://x,http://y",
				"-log-level", "debug",
			},
			expected: func() *Config {
				c := defaults()
				c.EndpointAddrHTTP = "127.0.0.1:9090"
				c.DatabaseDSN = "postgres://dsn"
				c.DBHost = "h"
				c.DBPort = 1
				c.DBUser = "u"
				c.DBPassword = "p"
				c.DBName = "n"
				c.DBMaxOpenConns = 7
				c.DBMaxIdleConns = 1
				c.DBAcquireTimeout = 2 * time.Second
				c.DBIdleTimeout = 3 * time.Second
				c.RunMigrations = false
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = 90 * time.Minute
				c.BcryptCost = 10
				c.CookieSecure = true
				c.EmailCheckMode = EmailCheckNone
				c.EmailCheckURL = "http://e"
				c.CORSAllowOrigins = []string{"http://x", "http://y"}
				c.LogLevel = "debug"
				return c
			},
		},
		{
			name:     "no flags keeps values",
			args:     []string{"-c", "ignored.json", "-test.v"},
			expected: defaults,
		},
		{
			name:        "bad int panics",
			args:        []string{"-port", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected(), config))
		})
	}
}

func TestParseFlags_TokenValidityUntouchedUnlessSet(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	c.AccessTokenValidityDuration = 90 * time.Second

	parseFlags(c, []string{"-s", "k"})

	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
}
