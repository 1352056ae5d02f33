package http

import (
	"net/http"

	"github.com/oklog/ulid/v2"
)

// DefaultSessionCookie names the cookie keying flash messages.
const DefaultSessionCookie = "_actionkit_session"

// sessionKey returns the client session id, issuing a new cookie when absent.
func sessionKey(w http.ResponseWriter, r *http.Request, cookie string) string {
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		if _, err := ulid.ParseStrict(c.Value); err == nil {
			return c.Value
		}
	}
	id := ulid.Make().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return id
}
