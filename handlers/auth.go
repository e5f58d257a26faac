package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/services"
	"aluquote/templates"
)

func HandleLoginPage(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if quotes.Has(GetSessionID(e.Request)) {
			return redirect(e, "/pricing")
		}
		return templates.LoginPage(templates.LoginData{}).Render(e.Request.Context(), e.Response)
	}
}

// HandleLogin checks the shop password and opens a fresh quote session.
func HandleLogin(verifier services.Verifier, quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		if !verifier.Verify(e.Request.FormValue("password")) {
			log.Printf("auth: failed login from %s", e.Request.RemoteAddr)
			e.Response.WriteHeader(http.StatusUnauthorized)
			return templates.LoginPage(templates.LoginData{Error: "Incorrect password"}).Render(e.Request.Context(), e.Response)
		}

		// Drop any quote still bound to this browser.
		quotes.Close(GetSessionID(e.Request))

		setSessionCookie(e, quotes.Open())
		return redirect(e, "/pricing")
	}
}

func HandleLogout(quotes *services.QuoteBook) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes.Close(GetSessionID(e.Request))
		clearSessionCookie(e)
		return redirect(e, "/login")
	}
}
