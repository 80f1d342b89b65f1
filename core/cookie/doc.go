// Package cookie writes and reads HTTP cookies with shared secure defaults
// (Path "/", HttpOnly, SameSite=Lax) and optional HMAC-SHA256 signing.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//	_ = m.SetSigned(w, "sid", sessionID)
//	sid, err := m.GetSigned(r, "sid") // ErrInvalidSignature when tampered
//
// Signatures cover the cookie name, so a value signed for one cookie cannot be
// replayed under another. Passing several secrets enables rotation: the first
// signs and all of them verify.
package cookie
