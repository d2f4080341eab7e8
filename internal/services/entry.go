package services

import (
	"context"

	"github.com/dmitrijs2005/pwvault/internal/vault"
)

// EntryService exposes the entries of an open session. Listed entries keep
// their secrets encrypted; GetSecret is the only way to read a plaintext.
type EntryService interface {
	List(s *vault.Session) []vault.Entry
	Add(ctx context.Context, s *vault.Session, site, username, secret, notes string) error
	GetSecret(s *vault.Session, site, username string) (string, error)
	Delete(ctx context.Context, s *vault.Session, site, username string) error
}

type entryService struct {
	store *vault.Store
}

// NewEntryService constructs an EntryService backed by store.
func NewEntryService(store *vault.Store) EntryService {
	return &entryService{store: store}
}

func (e *entryService) List(s *vault.Session) []vault.Entry {
	return e.store.ListEntries(s)
}

func (e *entryService) Add(ctx context.Context, s *vault.Session, site, username, secret, notes string) error {
	return e.store.AddEntry(ctx, s, site, username, secret, notes)
}

func (e *entryService) GetSecret(s *vault.Session, site, username string) (string, error) {
	return e.store.GetDecryptedSecret(s, site, username)
}

func (e *entryService) Delete(ctx context.Context, s *vault.Session, site, username string) error {
	return e.store.DeleteEntry(ctx, s, site, username)
}
