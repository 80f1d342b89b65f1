// Package csrf issues and checks anti-forgery tokens.
//
// Each client holds a random secret, normally in a cookie. Tokens are a random
// nonce followed by a keyed BLAKE2b-256 MAC of the nonce and an optional
// binding string, all base64url encoded. A new token can be minted for every
// page without storing anything server side; any of them verifies against the
// client's secret.
//
//	secret, _ := csrf.Secret()
//	token := csrf.Generate(secret, "")
//	ok := csrf.Verify(secret, token, "")
//
// The middleware package does the cookie handling and rejects unsafe requests
// whose token does not verify.
package csrf
