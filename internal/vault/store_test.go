package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
	"github.com/dmitrijs2005/pwvault/internal/logging"
	"github.com/dmitrijs2005/pwvault/internal/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	users.Repository
	failSave bool
}

func (f *failingRepo) Save(ctx context.Context, username string, data []byte) error {
	if f.failSave {
		return common.ErrIO
	}
	return f.Repository.Save(ctx, username, data)
}

func newTestStore(t *testing.T) (*Store, *users.FileRepository) {
	t.Helper()
	repo, err := users.NewFileRepository(filepath.Join(t.TempDir(), "users"))
	require.NoError(t, err)
	st := NewStore(repo, logging.Nop())
	st.now = testNow
	return st, repo
}

func testNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func registerAndLogin(t *testing.T, st *Store, user, pw string) *Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Register(ctx, user, []byte(pw)))
	s, err := st.Login(ctx, user, []byte(pw))
	require.NoError(t, err)
	return s
}

func TestStore_RegisterAndLogin(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Register(ctx, "bob", []byte("Sup3r$ecret!")))

	_, err := st.Login(ctx, "bob", []byte("wrong"))
	require.ErrorIs(t, err, common.ErrWrongPassword)

	s, err := st.Login(ctx, "bob", []byte("Sup3r$ecret!"))
	require.NoError(t, err)
	assert.True(t, s.Active())
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "bob", s.Username)
	assert.Empty(t, st.ListEntries(s))
	assert.False(t, s.Migrated)
}

func TestStore_RegisterValidation(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"empty username", "   ", "pw", common.ErrEmptyInput},
		{"short username", "ab", "pw", common.ErrUsernameTooShort},
		{"path separator", "../etc", "pw", common.ErrInvalidUsername},
		{"only dots", "...", "pw", common.ErrInvalidUsername},
		{"backup key context", " Backup ", "pw", common.ErrInvalidUsername},
		{"empty password", "carol", "", common.ErrEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.Register(ctx, tt.username, []byte(tt.password))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_RegisterNormalizesAndRejectsTaken(t *testing.T) {
	st, repo := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Register(ctx, "  Alice ", []byte("pw")))
	_, err := os.Stat(repo.Path("alice"))
	require.NoError(t, err)

	err = st.Register(ctx, "ALICE", []byte("other"))
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	ok, err := st.Exists(ctx, "Alice")
	require.NoError(t, err)
	assert.True(t, ok)

	s, err := st.Login(ctx, "aLiCe", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Username)
}

func TestStore_LoginUnknownUser(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Login(context.Background(), "nobody", []byte("pw"))
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestStore_EntryLifecycle(t *testing.T) {
	st, repo := newTestStore(t)
	ctx := context.Background()
	s := registerAndLogin(t, st, "bob", "Sup3r$ecret!")

	require.NoError(t, st.AddEntry(ctx, s, "github.com", "bob@example.com", "gh-pass", "work"))
	require.NoError(t, st.AddEntry(ctx, s, "github.com", "bob2", "other", ""))

	entries := st.ListEntries(s)
	require.Len(t, entries, 2)
	assert.NotEqual(t, "gh-pass", entries[0].Secret)
	assert.True(t, cryptox.IsToken([]byte(entries[0].Secret)))

	// plaintext never reaches the file
	raw, err := os.ReadFile(repo.Path("bob"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "gh-pass")

	secret, err := st.GetDecryptedSecret(s, "github.com", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "gh-pass", secret)

	assert.True(t, st.HasEntry(s, "github.com", "bob2"))
	assert.False(t, st.HasEntry(s, "GitHub.com", "bob2"))

	require.NoError(t, st.DeleteEntry(ctx, s, "github.com", "bob2"))
	assert.False(t, st.HasEntry(s, "github.com", "bob2"))
	require.ErrorIs(t, st.DeleteEntry(ctx, s, "github.com", "bob2"), common.ErrNotFound)

	_, err = st.GetDecryptedSecret(s, "github.com", "bob2")
	require.ErrorIs(t, err, common.ErrNotFound)

	// a fresh login sees the persisted state
	s2, err := st.Login(ctx, "bob", []byte("Sup3r$ecret!"))
	require.NoError(t, err)
	require.Len(t, st.ListEntries(s2), 1)
	secret, err = st.GetDecryptedSecret(s2, "github.com", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "gh-pass", secret)
}

func TestStore_AddEntryRejectsDuplicates(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	s := registerAndLogin(t, st, "bob", "pw")

	require.NoError(t, st.AddEntry(ctx, s, "site", "user", "one", "n1"))
	err := st.AddEntry(ctx, s, "site", "user", "two", "different notes")
	require.ErrorIs(t, err, common.ErrDuplicateEntry)
	assert.Len(t, st.ListEntries(s), 1)

	require.ErrorIs(t, st.AddEntry(ctx, s, " ", "user", "x", ""), common.ErrEmptyField)
	require.ErrorIs(t, st.AddEntry(ctx, s, "site", "user2", "", ""), common.ErrEmptyField)
}

func TestStore_FailedWriteKeepsState(t *testing.T) {
	st, repo := newTestStore(t)
	ctx := context.Background()
	s := registerAndLogin(t, st, "bob", "pw")
	require.NoError(t, st.AddEntry(ctx, s, "a.com", "bob", "1", ""))

	before, err := os.ReadFile(repo.Path("bob"))
	require.NoError(t, err)

	fr := &failingRepo{Repository: repo, failSave: true}
	st.repo = fr

	err = st.AddEntry(ctx, s, "b.com", "bob", "2", "")
	require.ErrorIs(t, err, common.ErrIO)
	assert.False(t, st.HasEntry(s, "b.com", "bob"))

	err = st.DeleteEntry(ctx, s, "a.com", "bob")
	require.ErrorIs(t, err, common.ErrIO)
	assert.True(t, st.HasEntry(s, "a.com", "bob"))

	after, err := os.ReadFile(repo.Path("bob"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_LogoutWipesSession(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	s := registerAndLogin(t, st, "bob", "pw")
	key := s.key

	st.Logout(ctx, s)

	assert.False(t, s.Active())
	assert.Equal(t, make([]byte, cryptox.KeySize), key)
	assert.Nil(t, st.ListEntries(s))
	require.ErrorIs(t, st.AddEntry(ctx, s, "a", "b", "c", ""), common.ErrNotLoggedIn)
	_, err := st.GetDecryptedSecret(s, "a", "b")
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	require.ErrorIs(t, st.DeleteEntry(ctx, s, "a", "b"), common.ErrNotLoggedIn)

	// logging out twice is harmless
	st.Logout(ctx, s)
	st.Logout(ctx, nil)
}

func TestStore_LoginCorruptFile(t *testing.T) {
	st, repo := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"missing entries", `{"username":"bob","password_hash":"` + cryptox.HashPassword([]byte("pw")) + `","format_version":"2.0"}`, common.ErrCorruptFile},
		{"bad hash", `{"username":"bob","password_hash":"xyz","format_version":"2.0","entries":[]}`, common.ErrCorruptFile},
		{"json array", `[1,2,3]`, common.ErrCorruptFile},
		{"garbage", "definitely not a vault", common.ErrCorruptFile},
		{"empty", "", common.ErrCorruptFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, "bob", []byte(tt.content)))
			_, err := st.Login(ctx, "bob", []byte("pw"))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, common.KindCorruption, common.KindOf(err))
		})
	}
}

func TestStore_TamperedSecretFailsDecryption(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	s := registerAndLogin(t, st, "bob", "pw")
	require.NoError(t, st.AddEntry(ctx, s, "a.com", "bob", "secret", ""))

	tok := []byte(s.record.Entries[0].Secret)
	if tok[40] == 'A' {
		tok[40] = 'B'
	} else {
		tok[40] = 'A'
	}
	s.record.Entries[0].Secret = string(tok)

	_, err := st.GetDecryptedSecret(s, "a.com", "bob")
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
	assert.True(t, errors.Is(err, cryptox.ErrAuthenticationFailed))
}
