package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
)

type contextKey string

const SessionKey contextKey = "quoteSession"

// SessionCookie holds the token of the caller's open quote.
const SessionCookie = "quote_session"

// publicPaths are served without a quote session. The pocketbase API and
// dashboard carry their own auth.
var publicPaths = []string{"/login", "/static/", "/api/", "/_/"}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// GetSessionID returns the quote session token of the request, taken from
// the context when the middleware ran and from the cookie otherwise.
func GetSessionID(r *http.Request) string {
	if val, ok := r.Context().Value(SessionKey).(string); ok {
		return val
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireSession sends callers without an open quote to the login page and
// stores the session token in the request context for everyone else.
func RequireSession(quotes *services.QuoteBook) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if isPublicPath(e.Request.URL.Path) {
			return e.Next()
		}

		cookie, err := e.Request.Cookie(SessionCookie)
		if err != nil || !quotes.Has(cookie.Value) {
			if err == nil {
				clearSessionCookie(e)
			}
			return redirect(e, "/login")
		}

		ctx := context.WithValue(e.Request.Context(), SessionKey, cookie.Value)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

func setSessionCookie(e *core.RequestEvent, token string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(e *core.RequestEvent) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// redirect sends HX-Redirect to HTMX callers and a 302 to everyone else.
func redirect(e *core.RequestEvent, to string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", to)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, to)
}
