package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a shared secret such as the shop password.
type Verifier interface {
	Verify(secret string) bool
}

// VerifierFunc adapts a plain function to Verifier.
type VerifierFunc func(secret string) bool

func (f VerifierFunc) Verify(secret string) bool { return f(secret) }

const passwordHashKey = "access_password_hash"

// MinPasswordLength is the shortest password Change accepts.
const MinPasswordLength = 4

var (
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrWeakPassword  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrNoPassword    = errors.New("no access password configured")
)

// PasswordStore keeps a bcrypt hash of the shop password in app_settings.
type PasswordStore struct {
	app  core.App
	cost int
}

// NewPasswordStore returns a store using bcrypt.DefaultCost.
func NewPasswordStore(app core.App) *PasswordStore {
	return &PasswordStore{app: app, cost: bcrypt.DefaultCost}
}

// EnsureInitial stores password as the access password unless one is already
// set. It reports whether a new hash was written.
func (s *PasswordStore) EnsureInitial(password string) (bool, error) {
	if _, err := s.hash(); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNoPassword) {
		return false, err
	}
	if len(password) < MinPasswordLength {
		return false, ErrWeakPassword
	}
	return true, s.set(password)
}

// Verify reports whether secret matches the stored password.
func (s *PasswordStore) Verify(secret string) bool {
	hash, err := s.hash()
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Change replaces the password after checking the current one.
func (s *PasswordStore) Change(current, next string) error {
	if !s.Verify(current) {
		return ErrWrongPassword
	}
	if len(strings.TrimSpace(next)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return s.set(next)
}

func (s *PasswordStore) hash() (string, error) {
	records, err := s.app.FindRecordsByFilter("app_settings", "key = {:key}", "", 1, 0, map[string]any{"key": passwordHashKey})
	if err != nil {
		return "", fmt.Errorf("load password hash: %w", err)
	}
	if len(records) == 0 || records[0].GetString("value") == "" {
		return "", ErrNoPassword
	}
	return records[0].GetString("value"), nil
}

func (s *PasswordStore) set(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	records, err := s.app.FindRecordsByFilter("app_settings", "key = {:key}", "", 1, 0, map[string]any{"key": passwordHashKey})
	if err != nil {
		return fmt.Errorf("load password hash: %w", err)
	}

	var rec *core.Record
	if len(records) > 0 {
		rec = records[0]
	} else {
		col, err := s.app.FindCollectionByNameOrId("app_settings")
		if err != nil {
			return fmt.Errorf("find app_settings collection: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("key", passwordHashKey)
	}
	rec.Set("value", string(hash))
	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("save password hash: %w", err)
	}
	return nil
}
