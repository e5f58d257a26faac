package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"aluquote/services"
	"aluquote/testhelpers"
)

func loginRequest(password string) *http.Request {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleLogin_CorrectPasswordOpensSession(t *testing.T) {
	quotes := services.NewQuoteBook()
	verifier := services.VerifierFunc(func(s string) bool { return s == testPassword })
	rec := httptest.NewRecorder()

	if err := HandleLogin(verifier, quotes)(newTestRequestEvent(nil, loginRequest(testPassword), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/pricing" {
		t.Errorf("got %d to %q, want 302 to /pricing", rec.Code, rec.Header().Get("Location"))
	}
	c := findCookie(rec, SessionCookie)
	if c == nil || c.Value == "" {
		t.Fatal("session cookie not set")
	}
	if !c.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if !quotes.Has(c.Value) {
		t.Error("cookie token has no open quote")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	quotes := services.NewQuoteBook()
	verifier := services.VerifierFunc(func(s string) bool { return s == testPassword })
	rec := httptest.NewRecorder()

	if err := HandleLogin(verifier, quotes)(newTestRequestEvent(nil, loginRequest("guess"), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Incorrect password", `name="password"`)
	if findCookie(rec, SessionCookie) != nil {
		t.Error("no session cookie expected on failed login")
	}
}

func TestHandleLogin_ReplacesPreviousQuote(t *testing.T) {
	quotes := services.NewQuoteBook()
	old := quotes.Open()
	verifier := services.VerifierFunc(func(s string) bool { return s == testPassword })

	req := loginRequest(testPassword)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: old})
	rec := httptest.NewRecorder()
	if err := HandleLogin(verifier, quotes)(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quotes.Has(old) {
		t.Error("previous quote should be closed on login")
	}
	if c := findCookie(rec, SessionCookie); c == nil || c.Value == old {
		t.Error("expected a fresh session token")
	}
}

func TestHandleLoginPage(t *testing.T) {
	quotes := services.NewQuoteBook()

	t.Run("renders form", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		if err := HandleLoginPage(quotes)(newTestRequestEvent(nil, req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testhelpers.AssertHTMLContains(t, rec.Body.String(), "Sign in", `action="/login"`)
	})

	t.Run("signed in goes to pricing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: quotes.Open()})
		if err := HandleLoginPage(quotes)(newTestRequestEvent(nil, req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Header().Get("Location") != "/pricing" {
			t.Errorf("Location = %q, want /pricing", rec.Header().Get("Location"))
		}
	})
}

func TestHandleLogout_DiscardsQuote(t *testing.T) {
	quotes := services.NewQuoteBook()
	token := quotes.Open()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("HX-Request", "true")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	if err := HandleLogout(quotes)(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/login")
	if quotes.Has(token) {
		t.Error("quote should be discarded on logout")
	}
	if c := findCookie(rec, SessionCookie); c == nil || c.MaxAge >= 0 {
		t.Error("session cookie should be cleared")
	}
}
