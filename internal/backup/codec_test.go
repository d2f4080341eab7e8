package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
	"github.com/dmitrijs2005/pwvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(filepath.Join(t.TempDir(), "backups"), logging.Nop())
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func sampleEntries() []Entry {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []Entry{
		{Site: "github.com", Username: "bob", Secret: "gh-pass", Notes: "work", CreatedAt: ts, UpdatedAt: ts},
		{Site: "mail.example.com", Username: "bob@example.com", Secret: "päss wörd ✓", CreatedAt: ts, UpdatedAt: ts},
	}
}

func TestCodec_ExportImportRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	path, err := c.Export(ctx, "bob", []byte("M@sterKey1"), sampleEntries())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Dir(), "backup_bob_20240309_140507.pwbak"), path)

	m, err := c.Import(ctx, path, []byte("M@sterKey1"))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, m.FormatVersion)
	assert.Equal(t, "bob", m.Username)
	assert.Equal(t, 2, m.EntryCount)
	assert.Equal(t, sampleEntries(), m.Entries)

	_, err = c.Import(ctx, path, []byte("M@sterKey2"))
	require.ErrorIs(t, err, common.ErrWrongPassword)
}

func TestCodec_ContainerLayout(t *testing.T) {
	c := newTestCodec(t)
	path, err := c.Export(context.Background(), "bob", []byte("pw"), sampleEntries())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), SaltSize)
	assert.True(t, cryptox.IsToken(data[SaltSize:]))
	assert.NotContains(t, string(data), "gh-pass")

	key := cryptox.DeriveKey([]byte("pw"), []byte(cryptox.BackupContext))
	var m Manifest
	require.NoError(t, cryptox.DecryptJSON(data[SaltSize:], key, &m))
	assert.Equal(t, "gh-pass", m.Entries[0].Secret)
}

func TestCodec_ExportFreshSaltAndUniqueNames(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	p1, err := c.Export(ctx, "bob", []byte("pw"), nil)
	require.NoError(t, err)
	p2, err := c.Export(ctx, "bob", []byte("pw"), nil)
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
	assert.Equal(t, "backup_bob_20240309_140508.pwbak", filepath.Base(p2))

	d1, err := os.ReadFile(p1)
	require.NoError(t, err)
	d2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.NotEqual(t, d1[:SaltSize], d2[:SaltSize])

	m, err := c.Import(ctx, p2, []byte("pw"))
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
	assert.NotNil(t, m.Entries)
}

func TestCodec_ExportValidation(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	_, err := c.Export(ctx, "", []byte("pw"), nil)
	require.ErrorIs(t, err, common.ErrEmptyInput)
	_, err = c.Export(ctx, "bob", nil, nil)
	require.ErrorIs(t, err, common.ErrEmptyInput)
	_, err = c.Export(ctx, "../bob", []byte("pw"), nil)
	require.ErrorIs(t, err, common.ErrInvalidUsername)
}

func TestCodec_ImportCorruptedByte(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	path, err := c.Export(ctx, "bob", []byte("M@sterKey1"), sampleEntries())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	i := SaltSize + len(data[SaltSize:])/2
	if data[i] == 'A' {
		data[i] = 'B'
	} else {
		data[i] = 'A'
	}
	require.NoError(t, os.WriteFile(path, data, 0o600))

	m, err := c.Import(ctx, path, []byte("M@sterKey1"))
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, []common.Kind{common.KindAuthentication, common.KindCorruption}, common.KindOf(err))
}

func TestCodec_ImportErrors(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := c.Import(ctx, filepath.Join(dir, "missing.pwbak"), []byte("pw"))
	require.ErrorIs(t, err, common.ErrFileNotFound)

	short := filepath.Join(dir, "short.pwbak")
	require.NoError(t, os.WriteFile(short, []byte("0123456789"), 0o600))
	_, err = c.Import(ctx, short, []byte("pw"))
	require.ErrorIs(t, err, common.ErrCorruptSalt)

	saltOnly := filepath.Join(dir, "salt.pwbak")
	require.NoError(t, os.WriteFile(saltOnly, make([]byte, SaltSize), 0o600))
	_, err = c.Import(ctx, saltOnly, []byte("pw"))
	require.ErrorIs(t, err, common.ErrWrongPassword)

	_, err = c.Import(ctx, short, nil)
	require.ErrorIs(t, err, common.ErrEmptyInput)
}

func writeContainer(t *testing.T, dir, password string, payload any) string {
	t.Helper()
	key := cryptox.DeriveKey([]byte(password), []byte(cryptox.BackupContext))
	tok, err := cryptox.EncryptJSON(payload, key)
	require.NoError(t, err)
	path := filepath.Join(dir, "custom.pwbak")
	require.NoError(t, os.WriteFile(path, append(make([]byte, SaltSize), tok...), 0o600))
	return path
}

func TestCodec_ImportMalformedManifest(t *testing.T) {
	c := newTestCodec(t)
	path := writeContainer(t, t.TempDir(), "pw", map[string]any{"username": "bob"})

	_, err := c.Import(context.Background(), path, []byte("pw"))
	require.ErrorIs(t, err, common.ErrMalformedManifest)
}

func TestCodec_ImportLegacyManifest(t *testing.T) {
	c := newTestCodec(t)
	legacy := map[string]any{
		"version":               "1.0",
		"username":              "bob",
		"export_date":           "2023-12-24T18:30:00.654321",
		"export_date_formatted": "24/12/2023 18:30",
		"password_count":        2,
		"passwords": []map[string]any{
			{"site": "a.com", "username": "bob", "password": "one", "notes": nil, "created_at": "2023-01-01T10:00:00", "updated_at": nil},
			{"site": "b.com", "username": "bob", "password": "two", "notes": "n"},
		},
	}
	path := writeContainer(t, t.TempDir(), "pw", legacy)

	m, err := c.Import(context.Background(), path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "1.0", m.FormatVersion)
	assert.Equal(t, 2, m.EntryCount)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "one", m.Entries[0].Secret)
	assert.Equal(t, "", m.Entries[0].Notes)
	assert.Equal(t, 2023, m.Entries[0].CreatedAt.Year())
	assert.Equal(t, m.CreatedAt, m.Entries[0].UpdatedAt)
	assert.Equal(t, "n", m.Entries[1].Notes)
}

func TestCodec_Info(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()
	path, err := c.Export(ctx, "bob", []byte("pw"), sampleEntries())
	require.NoError(t, err)

	info, err := c.Info(ctx, path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "bob", info.Username)
	assert.Equal(t, 2, info.EntryCount)
	assert.Equal(t, path, info.Path)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fi.Size(), info.Size)
	assert.True(t, info.CreatedAt.Equal(fixedNow))

	_, err = c.Info(ctx, path, []byte("nope"))
	require.ErrorIs(t, err, common.ErrWrongPassword)
}
