package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// SecretSize is the length of a raw secret in bytes.
	SecretSize = 32
	nonceSize  = 16
	macSize    = blake2b.Size256
)

// Secret returns a new random per-client secret.
func Secret() ([]byte, error) {
	b := make([]byte, SecretSize)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecret, err)
	}
	return b, nil
}

// Generate returns a token for secret. Each call yields a different token
// because a fresh nonce is mixed in; all of them verify against the same
// secret. binding ties the token to extra request state (for example the
// session id) and may be empty.
func Generate(secret []byte, binding string) string {
	buf := make([]byte, nonceSize, nonceSize+macSize)
	_, _ = rand.Read(buf)
	buf = append(buf, mac(secret, buf, binding)...)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Verify reports whether token was produced by Generate for secret and binding.
func Verify(secret []byte, token, binding string) bool {
	if len(secret) == 0 || token == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != nonceSize+macSize {
		return false
	}
	want := mac(secret, raw[:nonceSize], binding)
	return subtle.ConstantTimeCompare(raw[nonceSize:], want) == 1
}

// EncodeSecret and DecodeSecret convert a secret to and from its cookie form.
func EncodeSecret(secret []byte) string {
	return base64.RawURLEncoding.EncodeToString(secret)
}

func DecodeSecret(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(b) != SecretSize {
		return nil, ErrInvalidSecret
	}
	return b, nil
}

func mac(secret, nonce []byte, binding string) []byte {
	// blake2b.New256 only fails for keys longer than 64 bytes.
	key := secret
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, _ := blake2b.New256(key)
	h.Write(nonce)
	h.Write([]byte{0})
	h.Write([]byte(binding))
	return h.Sum(nil)
}
