package session

import "time"

// Config holds session settings, loadable from the environment.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// DefaultConfig returns the defaults used for zero fields.
func DefaultConfig() Config {
	return Config{CookieName: "sid", TTL: 24 * time.Hour}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CookieName == "" {
		c.CookieName = d.CookieName
	}
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	return c
}
