package csrf

import (
	"net/http"
	"slices"
	"time"
)

// Config describes where the secret lives and where tokens are read from.
type Config struct {
	CookieName   string        `env:"CSRF_COOKIE_NAME" envDefault:"_csrf"`
	CookieMaxAge time.Duration `env:"CSRF_COOKIE_MAX_AGE" envDefault:"24h"`
	HeaderName   string        `env:"CSRF_HEADER_NAME" envDefault:"X-CSRF-Token"`
	FormField    string        `env:"CSRF_FORM_FIELD" envDefault:"_csrf"`
	// SafeMethods skip verification.
	SafeMethods []string `env:"CSRF_SAFE_METHODS" envSeparator:"," envDefault:"GET,HEAD,OPTIONS,TRACE"`
}

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{
		CookieName:   "_csrf",
		CookieMaxAge: 24 * time.Hour,
		HeaderName:   "X-CSRF-Token",
		FormField:    "_csrf",
		SafeMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace},
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.CookieName == "" {
		c.CookieName = d.CookieName
	}
	if c.CookieMaxAge <= 0 {
		c.CookieMaxAge = d.CookieMaxAge
	}
	if c.HeaderName == "" {
		c.HeaderName = d.HeaderName
	}
	if c.FormField == "" {
		c.FormField = d.FormField
	}
	if len(c.SafeMethods) == 0 {
		c.SafeMethods = d.SafeMethods
	}
	return c
}

// IsSafe reports whether requests with method skip verification.
func (c Config) IsSafe(method string) bool {
	return slices.Contains(c.SafeMethods, method)
}
