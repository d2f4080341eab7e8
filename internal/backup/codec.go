// Package backup reads and writes encrypted backup containers.
//
// A container is a 16-byte random salt followed by a cipher token of the
// JSON manifest. The key is derived from the master password with the backup
// context, so a backup can be restored into any vault. The salt is stored for
// compatibility with existing containers and is not part of the derivation.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/cryptox"
	"github.com/dmitrijs2005/pwvault/internal/filex"
	"github.com/dmitrijs2005/pwvault/internal/logging"
)

const (
	// SaltSize is the length of the container header.
	SaltSize = 16

	// FileExt is the extension of backup containers.
	FileExt = ".pwbak"

	filePrefix      = "backup_"
	timestampLayout = "20060102_150405"
)

// Codec exports and imports backup containers kept in one directory.
type Codec struct {
	dir string
	log logging.Logger
	now func() time.Time
}

// NewCodec returns a codec managing dir, creating the directory if needed.
func NewCodec(dir string, log logging.Logger) (*Codec, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	return &Codec{dir: abs, log: log, now: time.Now}, nil
}

// Dir returns the absolute backup directory.
func (c *Codec) Dir() string {
	return c.dir
}

// FileName returns the container name for username at ts.
func FileName(username string, ts time.Time) string {
	return filePrefix + username + "_" + ts.Format(timestampLayout) + FileExt
}

// Export writes entries into a new container and returns its path. Secrets
// in entries must be plaintext.
func (c *Codec) Export(ctx context.Context, username string, masterPassword []byte, entries []Entry) (string, error) {
	if username == "" || len(masterPassword) == 0 {
		return "", common.ErrEmptyInput
	}
	if strings.ContainsAny(username, `/\`) {
		return "", common.ErrInvalidUsername
	}
	if entries == nil {
		entries = []Entry{}
	}

	now := c.now()
	m := &Manifest{
		FormatVersion: ManifestVersion,
		Username:      username,
		CreatedAt:     now.UTC(),
		EntryCount:    len(entries),
		Entries:       entries,
	}

	key := cryptox.DeriveKey(masterPassword, []byte(cryptox.BackupContext))
	defer common.WipeByteArray(key)

	token, err := cryptox.EncryptJSON(m, key)
	if err != nil {
		return "", fmt.Errorf("%w: encrypt manifest: %w", common.ErrorInternal, err)
	}

	data := make([]byte, 0, SaltSize+len(token))
	data = append(data, common.GenerateRandByteArray(SaltSize)...)
	data = append(data, token...)

	path, err := c.freePath(username, now)
	if err != nil {
		return "", err
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		c.log.Error(ctx, "backup export failed", "user", username, "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrIO, err)
	}

	c.log.Info(ctx, "backup exported", "user", username, "entries", len(entries), "file", filepath.Base(path))
	return path, nil
}

// freePath picks a file name that does not exist yet. Two exports within the
// same second move the later one forward so names stay parseable.
func (c *Codec) freePath(username string, ts time.Time) (string, error) {
	for i := 0; i < 60; i++ {
		path := filepath.Join(c.dir, FileName(username, ts.Add(time.Duration(i)*time.Second)))
		ok, err := filex.Exists(path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrIO, err)
		}
		if !ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: too many backups for %s at %s", common.ErrIO, username, ts.Format(timestampLayout))
}

// Import opens the container at path. Authentication failures are reported
// as common.ErrWrongPassword whether the password is wrong or the file was
// tampered with.
func (c *Codec) Import(ctx context.Context, path string, masterPassword []byte) (*Manifest, error) {
	m, _, err := c.open(ctx, path, masterPassword)
	return m, err
}

// Info opens the container at path and returns its header only.
func (c *Codec) Info(ctx context.Context, path string, masterPassword []byte) (*ManifestInfo, error) {
	m, size, err := c.open(ctx, path, masterPassword)
	if err != nil {
		return nil, err
	}
	return &ManifestInfo{
		Path:          path,
		Size:          size,
		FormatVersion: m.FormatVersion,
		Username:      m.Username,
		CreatedAt:     m.CreatedAt,
		EntryCount:    m.EntryCount,
	}, nil
}

func (c *Codec) open(ctx context.Context, path string, masterPassword []byte) (*Manifest, int64, error) {
	if len(masterPassword) == 0 {
		return nil, 0, common.ErrEmptyInput
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, common.ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if len(data) < SaltSize {
		return nil, 0, common.ErrCorruptSalt
	}

	key := cryptox.DeriveKey(masterPassword, []byte(cryptox.BackupContext))
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Decrypt(string(data[SaltSize:]), key)
	if err != nil {
		c.log.Warn(ctx, "backup decryption failed", "file", filepath.Base(path), "error", err)
		return nil, 0, common.ErrWrongPassword
	}

	m, err := decodeManifest(plaintext)
	if err != nil {
		c.log.Warn(ctx, "backup manifest rejected", "file", filepath.Base(path), "error", err)
		return nil, 0, err
	}

	c.log.Debug(ctx, "backup opened", "file", filepath.Base(path), "entries", m.EntryCount)
	return m, int64(len(data)), nil
}
