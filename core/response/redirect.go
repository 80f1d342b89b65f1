package response

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Redirect creates a 302 Found response.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response, the usual answer to a
// successful form POST.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectTemporary creates a 307 Temporary Redirect response. The client
// repeats the request with the same method and body.
func RedirectTemporary(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusTemporaryRedirect)
}

// RedirectPermanent creates a 308 Permanent Redirect response.
func RedirectPermanent(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusPermanentRedirect)
}

// RedirectWithStatus redirects with the given 3xx status.
// It panics if status is not a redirection: that is a programming error.
func RedirectWithStatus(url string, status int) handler.Response {
	if status < 300 || status > 399 {
		panic(fmt.Sprintf("response: %d is not a redirection status code", status))
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}

// Location creates an empty 200 response whose Content-Location names the
// canonical URL of the returned representation.
func Location(url string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Location", url)
		w.WriteHeader(http.StatusOK)
		return nil
	}
}
