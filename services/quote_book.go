package services

import (
	"sync"

	"github.com/pocketbase/pocketbase/tools/security"
)

const sessionTokenLength = 40

// QuoteBook keeps one in-memory quote per signed-in session. All access to a
// quote goes through the book's lock, so a quote has a single writer at a time.
type QuoteBook struct {
	mu     sync.Mutex
	quotes map[string]*Quote
}

// NewQuoteBook returns an empty book.
func NewQuoteBook() *QuoteBook {
	return &QuoteBook{quotes: make(map[string]*Quote)}
}

// Open starts a session with an empty quote and returns its token.
func (b *QuoteBook) Open() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := security.RandomString(sessionTokenLength)
	b.quotes[token] = NewQuote()
	return token
}

// Has reports whether token belongs to an open session.
func (b *QuoteBook) Has(token string) bool {
	if token == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.quotes[token]
	return ok
}

// Close ends a session and discards its quote.
func (b *QuoteBook) Close(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.quotes, token)
}

// Update runs fn on the session's quote while holding the lock. It returns
// false when the session does not exist.
func (b *QuoteBook) Update(token string, fn func(q *Quote)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.quotes[token]
	if !ok {
		return false
	}
	fn(q)
	return true
}

// Snapshot returns a copy of the session's quote.
func (b *QuoteBook) Snapshot(token string) (QuoteSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.quotes[token]
	if !ok {
		return QuoteSnapshot{}, false
	}
	return q.Snapshot(), true
}
