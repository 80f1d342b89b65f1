package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

const (
	// MaxCookieSize is the largest cookie browsers are guaranteed to keep.
	MaxCookieSize = 4096
	// minSecretLength is the minimum accepted signing secret length.
	minSecretLength = 32
)

// Manager reads and writes cookies with shared defaults. Signed cookies carry
// an HMAC-SHA256 of name and value; the first secret signs, every secret
// verifies, which allows rotation.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// New creates a Manager. At least one secret of 32+ characters is required.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{secrets: secrets, defaults: defaults, maxSize: MaxCookieSize}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	c := m.cookie(name, value, applyOptions(m.defaults, opts))
	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}
	http.SetCookie(w, c)
	return nil
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// SetSigned writes value with a signature bound to the cookie name.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(name, value, m.secrets[0]), opts...)
}

// GetSigned reads and verifies a signed cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	value, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", ErrInvalidFormat
	}
	for _, secret := range m.secrets {
		expected := m.sign(name, string(payload), secret)
		if _, expectedSig, _ := strings.Cut(expected, "."); hmac.Equal([]byte(sig), []byte(expectedSig)) {
			return string(payload), nil
		}
	}
	return "", ErrInvalidSignature
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	opts := m.defaults
	opts.MaxAge = -1
	http.SetCookie(w, m.cookie(name, "", opts))
}

func (m *Manager) sign(name, value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) cookie(name, value string, o Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}
