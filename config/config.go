// Package config loads the client settings from the environment.
//
// Variables are read with the TENANTADMIN_ prefix, after any .env files:
//
//	TENANTADMIN_API_URL=https://admin.acme.test/api
//	TENANTADMIN_SESSION_URL=file:///var/lib/tenantadmin/session.json
//	TENANTADMIN_LOG_LEVEL=debug
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "TENANTADMIN_"

// Config holds the client settings.
type Config struct {
	BaseURL     string        `env:"API_URL" envDefault:"http://localhost:3000/api"`
	LoginPath   string        `env:"LOGIN_PATH" envDefault:"/auth/login"`
	RefreshPath string        `env:"REFRESH_PATH" envDefault:"/auth/refresh"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// SessionURL is an afs URL of the session record; ignored when RedisAddr is set.
	SessionURL string        `env:"SESSION_URL"`
	RedisAddr  string        `env:"REDIS_ADDR"`
	RedisKey   string        `env:"REDIS_KEY" envDefault:"tenantadmin:session"`
	RedisTTL   time.Duration `env:"REDIS_TTL"`

	CookieJar  string `env:"COOKIE_JAR"`
	CookieName string `env:"COOKIE_NAME" envDefault:"accessToken"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

// Load reads files (".env" when none given) into the environment without
// overriding variables already set, then parses Config. Missing files are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %v: %w", file, err)
		}
	}
	ret := &Config{}
	if err := env.ParseWithOptions(ret, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return ret, ret.Validate()
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%vAPI_URL is required", Prefix)
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid API URL %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	return nil
}
