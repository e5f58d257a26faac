package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"aluquote/collections"
	"aluquote/services"
	"aluquote/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

const testPassword = "shop-secret"

// testEnv is a seeded app with one open quote session.
type testEnv struct {
	app      core.App
	store    *services.CatalogStore
	quotes   *services.QuoteBook
	verifier services.Verifier
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := services.NewCatalogStore(app)
	if err := store.Reload(); err != nil {
		t.Fatalf("reload catalog: %v", err)
	}
	quotes := services.NewQuoteBook()
	return &testEnv{
		app:      app,
		store:    store,
		quotes:   quotes,
		verifier: services.VerifierFunc(func(s string) bool { return s == testPassword }),
		token:    quotes.Open(),
	}
}

func (env *testEnv) productID(t *testing.T, name string) string {
	t.Helper()
	for _, p := range env.store.Snapshot().Products {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("product %q not seeded", name)
	return ""
}

func (env *testEnv) categoryID(t *testing.T, name string) string {
	t.Helper()
	for _, c := range env.store.Snapshot().Categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not seeded", name)
	return ""
}

// request builds a request carrying the env's session cookie. A non-nil form
// is sent url-encoded.
func (env *testEnv) request(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: env.token})
	return req
}

// serve runs handler on req and returns the recorder.
func (env *testEnv) serve(t *testing.T, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(env.app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// addLine puts a line on the env's quote directly.
func (env *testEnv) addLine(t *testing.T, sel services.Selection) services.LineItem {
	t.Helper()
	item, err := services.BuildLineItem(env.store.Snapshot(), sel, services.DefaultExtras)
	if err != nil {
		t.Fatalf("BuildLineItem: %v", err)
	}
	env.quotes.Update(env.token, func(q *services.Quote) {
		item = q.AddItem(item)
	})
	return item
}

func (env *testEnv) snapshot(t *testing.T) services.QuoteSnapshot {
	t.Helper()
	snap, ok := env.quotes.Snapshot(env.token)
	if !ok {
		t.Fatal("session closed")
	}
	return snap
}

// multipartRequest builds a file upload under the "file" field.
func (env *testEnv) multipartRequest(t *testing.T, target, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: env.token})
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
