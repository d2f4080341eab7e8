package services

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pwvault/internal/backup"
	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/logging"
	"github.com/dmitrijs2005/pwvault/internal/vault"
)

// ExportResult describes a finished export. A mirror failure does not make
// the export fail; it is reported in MirrorErr.
type ExportResult struct {
	Path      string
	Entries   int
	Remote    string
	MirrorErr error
}

// ImportReport counts the outcome of reconciling a backup into a vault.
type ImportReport struct {
	Source   string
	Imported int
	Skipped  int
	Errors   int
}

// BackupService moves entries between an open vault and backup containers.
//
// Contract:
//   - Export: decrypt every entry of the session and write a container.
//   - Import: add the entries of a container that the vault does not have.
//   - List / Info / Delete: inspect and manage containers in the backup directory.
//
// Paths without a directory component are resolved inside the backup
// directory.
type BackupService interface {
	Export(ctx context.Context, s *vault.Session, masterPassword []byte) (*ExportResult, error)
	Import(ctx context.Context, s *vault.Session, path string, masterPassword []byte) (*ImportReport, error)
	List(ctx context.Context) ([]backup.Summary, error)
	Info(ctx context.Context, path string, masterPassword []byte) (*backup.ManifestInfo, error)
	Delete(ctx context.Context, path string) error
}

type backupService struct {
	store  *vault.Store
	codec  *backup.Codec
	mirror backup.Mirror
	log    logging.Logger
}

// NewBackupService constructs a BackupService. mirror may be nil.
func NewBackupService(store *vault.Store, codec *backup.Codec, mirror backup.Mirror, log logging.Logger) BackupService {
	return &backupService{store: store, codec: codec, mirror: mirror, log: log}
}

func (b *backupService) resolve(path string) string {
	if filepath.Base(path) == path {
		return filepath.Join(b.codec.Dir(), path)
	}
	return path
}

func (b *backupService) Export(ctx context.Context, s *vault.Session, masterPassword []byte) (*ExportResult, error) {
	if !s.Active() {
		return nil, common.ErrNotLoggedIn
	}

	stored := b.store.ListEntries(s)
	entries := make([]backup.Entry, 0, len(stored))
	for _, e := range stored {
		secret, err := b.store.GetDecryptedSecret(s, e.Site, e.Username)
		if err != nil {
			b.log.Error(ctx, "export aborted", "user", s.Username, "site", e.Site, "error", err)
			return nil, err
		}
		entries = append(entries, backup.Entry{
			Site:      e.Site,
			Username:  e.Username,
			Secret:    secret,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}

	path, err := b.codec.Export(ctx, s.Username, masterPassword, entries)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{Path: path, Entries: len(entries)}
	if b.mirror != nil {
		remote, err := b.mirror.Upload(ctx, path)
		if err != nil {
			b.log.Warn(ctx, "backup kept locally, mirror upload failed", "file", filepath.Base(path), "error", err)
			res.MirrorErr = err
		} else {
			res.Remote = remote
		}
	}
	return res, nil
}

// Import adds every manifest entry whose trimmed (site, username) is not in
// the vault yet, encrypting it under the session key. Importing the same container
// twice imports nothing the second time.
func (b *backupService) Import(ctx context.Context, s *vault.Session, path string, masterPassword []byte) (*ImportReport, error) {
	if !s.Active() {
		return nil, common.ErrNotLoggedIn
	}

	m, err := b.codec.Import(ctx, b.resolve(path), masterPassword)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Source: m.Username}
	for _, e := range m.Entries {
		site, user := strings.TrimSpace(e.Site), strings.TrimSpace(e.Username)
		if b.store.HasEntry(s, site, user) {
			report.Skipped++
			continue
		}
		if err := b.store.AddEntry(ctx, s, site, user, e.Secret, e.Notes); err != nil {
			b.log.Warn(ctx, "backup entry not imported", "site", e.Site, "error", err)
			report.Errors++
			continue
		}
		report.Imported++
	}

	b.log.Info(ctx, "backup imported", "user", s.Username,
		"imported", report.Imported, "skipped", report.Skipped, "errors", report.Errors)
	return report, nil
}

func (b *backupService) List(ctx context.Context) ([]backup.Summary, error) {
	return b.codec.ListAvailable(ctx, b.codec.Dir())
}

func (b *backupService) Info(ctx context.Context, path string, masterPassword []byte) (*backup.ManifestInfo, error) {
	return b.codec.Info(ctx, b.resolve(path), masterPassword)
}

func (b *backupService) Delete(ctx context.Context, path string) error {
	return b.codec.Delete(ctx, b.resolve(path))
}
