package services

import (
	"context"
	"crypto/subtle"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/vault"
)

// AuthService manages accounts and sessions.
//
// Contract:
//   - Register: create a vault; password and confirmation must match.
//   - Login: authenticate and open a session, migrating legacy files.
//   - Logout: wipe the session keys.
type AuthService interface {
	Register(ctx context.Context, username string, password, confirm []byte) error
	Login(ctx context.Context, username string, password []byte) (*vault.Session, error)
	Logout(ctx context.Context, s *vault.Session)
}

type authService struct {
	store *vault.Store
}

// NewAuthService constructs an AuthService backed by store.
func NewAuthService(store *vault.Store) AuthService {
	return &authService{store: store}
}

func (a *authService) Register(ctx context.Context, username string, password, confirm []byte) error {
	if len(password) == 0 {
		return common.ErrEmptyInput
	}
	if subtle.ConstantTimeCompare(password, confirm) != 1 {
		return common.ErrPasswordMismatch
	}
	return a.store.Register(ctx, username, password)
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*vault.Session, error) {
	return a.store.Login(ctx, username, password)
}

func (a *authService) Logout(ctx context.Context, s *vault.Session) {
	a.store.Logout(ctx, s)
}
