package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
	"github.com/dmitrijs2005/pwvault/internal/logging"
	"github.com/dmitrijs2005/pwvault/internal/repositories/users"
	"github.com/google/uuid"
)

// Store is the credential store. It is not safe for concurrent use on the
// same username.
type Store struct {
	repo users.Repository
	log  logging.Logger
	now  func() time.Time
}

// NewStore returns a Store persisting record files through repo.
func NewStore(repo users.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Exists reports whether a record file is stored for username.
func (st *Store) Exists(ctx context.Context, username string) (bool, error) {
	u, err := NormalizeUsername(username)
	if err != nil {
		return false, err
	}
	return st.repo.Exists(ctx, u)
}

// Register creates an empty vault for username.
func (st *Store) Register(ctx context.Context, username string, password []byte) error {
	u, err := NormalizeUsername(username)
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return common.ErrEmptyInput
	}

	exists, err := st.repo.Exists(ctx, u)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrUsernameTaken
	}

	now := st.now()
	rec := &RecordFile{
		Username:      u,
		PasswordHash:  cryptox.HashPassword(password),
		CreatedAt:     now,
		UpdatedAt:     now,
		FormatVersion: FormatVersion,
		Entries:       []Entry{},
	}
	if err := st.save(ctx, rec); err != nil {
		return err
	}

	st.log.Info(ctx, "user registered", "user", u)
	return nil
}

// Login authenticates username and returns a session. Legacy record files
// are migrated to the current format before the session is returned.
func (st *Store) Login(ctx context.Context, username string, password []byte) (*Session, error) {
	u, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, common.ErrEmptyInput
	}

	raw, err := st.repo.Load(ctx, u)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeRecord(raw)
	if err != nil {
		st.log.Warn(ctx, "record file rejected", "user", u, "error", err)
		return nil, err
	}

	s := &Session{ID: uuid.NewString(), Username: u}

	switch d := decoded.(type) {
	case currentEnvelope:
		if !cryptox.VerifyPassword(password, d.record.PasswordHash) {
			st.log.Warn(ctx, "login failed", "user", u)
			return nil, common.ErrWrongPassword
		}
		legacyKey, err := legacyKeyFor(d.record, password)
		if err != nil {
			return nil, err
		}
		s.record = d.record
		s.legacyKey = legacyKey

	case legacyBlob:
		m, err := openLegacy(d, u, password, st.now())
		if err != nil {
			st.log.Warn(ctx, "legacy record could not be opened", "user", u, "error", err)
			return nil, err
		}
		if err := st.save(ctx, m.record); err != nil {
			common.WipeByteArray(m.legacyKey)
			return nil, err
		}
		st.log.Info(ctx, "legacy record migrated", "user", u, "candidate", m.candidate, "entries", len(m.record.Entries))
		if m.skipped > 0 {
			st.log.Warn(ctx, "legacy entries dropped during migration", "user", u, "skipped", m.skipped)
		}
		s.record = m.record
		s.legacyKey = m.legacyKey
		s.Migrated = true

	default:
		return nil, fmt.Errorf("%w: unknown record format %s", common.ErrorInternal, decoded.format())
	}

	s.key = cryptox.DeriveKey(password, []byte(u))
	st.log.Info(ctx, "login succeeded", "user", u, "session", s.ID)
	return s, nil
}

// Logout wipes the keys held by s. The session cannot be used afterwards.
func (st *Store) Logout(ctx context.Context, s *Session) {
	if !s.Active() {
		return
	}
	st.log.Info(ctx, "logout", "user", s.Username, "session", s.ID)
	s.close()
}

// AddEntry encrypts secret under the session key and appends a new entry.
func (st *Store) AddEntry(ctx context.Context, s *Session, site, username, secret, notes string) error {
	if !s.Active() {
		return common.ErrNotLoggedIn
	}
	site, username = strings.TrimSpace(site), strings.TrimSpace(username)
	if site == "" || username == "" || secret == "" {
		return common.ErrEmptyField
	}
	if s.record.indexOf(site, username) >= 0 {
		return common.ErrDuplicateEntry
	}

	token, err := cryptox.Encrypt([]byte(secret), s.key)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	now := st.now()
	next := s.record.clone()
	next.Entries = append(next.Entries, Entry{
		Site:      site,
		Username:  username,
		Secret:    token,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	next.UpdatedAt = now

	if err := st.save(ctx, next); err != nil {
		return err
	}
	s.record = next

	st.log.Info(ctx, "entry added", "user", s.Username, "site", site)
	return nil
}

// GetDecryptedSecret returns the plaintext secret of one entry. site and
// username must match the stored values exactly. Entries carried over from a
// legacy file are opened with the legacy key.
func (st *Store) GetDecryptedSecret(s *Session, site, username string) (string, error) {
	if !s.Active() {
		return "", common.ErrNotLoggedIn
	}
	i := s.record.indexOf(site, username)
	if i < 0 {
		return "", common.ErrNotFound
	}
	token := s.record.Entries[i].Secret

	plaintext, err := cryptox.Decrypt(token, s.key)
	if err != nil && s.legacyKey != nil && errors.Is(err, cryptox.ErrAuthenticationFailed) {
		plaintext, err = cryptox.Decrypt(token, s.legacyKey)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// DeleteEntry removes the entry matching (site, username) exactly.
func (st *Store) DeleteEntry(ctx context.Context, s *Session, site, username string) error {
	if !s.Active() {
		return common.ErrNotLoggedIn
	}
	i := s.record.indexOf(site, username)
	if i < 0 {
		return common.ErrNotFound
	}

	next := s.record.clone()
	next.Entries = append(next.Entries[:i], next.Entries[i+1:]...)
	next.UpdatedAt = st.now()

	if err := st.save(ctx, next); err != nil {
		return err
	}
	s.record = next

	st.log.Info(ctx, "entry deleted", "user", s.Username, "site", site)
	return nil
}

// ListEntries returns a copy of the stored entries. Secrets stay encrypted.
func (st *Store) ListEntries(s *Session) []Entry {
	if !s.Active() {
		return nil
	}
	out := make([]Entry, len(s.record.Entries))
	copy(out, s.record.Entries)
	return out
}

// HasEntry reports whether an entry with (site, username) exists.
func (st *Store) HasEntry(s *Session, site, username string) bool {
	if !s.Active() {
		return false
	}
	return s.record.indexOf(site, username) >= 0
}

func (st *Store) save(ctx context.Context, rec *RecordFile) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %w", common.ErrorInternal, err)
	}
	// a file the store would reject on the next login is never written
	if err := validateRecord(data); err != nil {
		st.log.Error(ctx, "refusing to write invalid record", "user", rec.Username, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := st.repo.Save(ctx, rec.Username, data); err != nil {
		st.log.Error(ctx, "record file write failed", "user", rec.Username, "error", err)
		return err
	}
	return nil
}
