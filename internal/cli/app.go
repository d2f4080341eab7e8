package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/pwvault/internal/backup"
	"github.com/dmitrijs2005/pwvault/internal/config"
	"github.com/dmitrijs2005/pwvault/internal/logging"
	"github.com/dmitrijs2005/pwvault/internal/repositories/users"
	"github.com/dmitrijs2005/pwvault/internal/services"
	"github.com/dmitrijs2005/pwvault/internal/vault"
)

type App struct {
	config          *config.Config
	log             logging.Logger
	authService     services.AuthService
	entryService    services.EntryService
	backupService   services.BackupService
	passwordService services.PasswordService
	session         *vault.Session
	reader          *bufio.Reader
	out             io.Writer
}

// NewApp wires the services described by c. The S3 mirror is created only
// when a bucket is configured.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repo, err := users.NewFileRepository(c.UsersDir())
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	store := vault.NewStore(repo, log)

	codec, err := backup.NewCodec(c.BackupsDir(), log)
	if err != nil {
		return nil, fmt.Errorf("open backup directory: %w", err)
	}

	var mirror backup.Mirror
	if c.MirrorEnabled() {
		m, err := backup.NewS3Mirror(ctx, backup.S3Config{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Timeout:      c.S3UploadTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		mirror = m
	}

	return &App{
		config:          c,
		log:             log,
		authService:     services.NewAuthService(store),
		entryService:    services.NewEntryService(store),
		backupService:   services.NewBackupService(store, codec, mirror, log),
		passwordService: services.NewPasswordService(),
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
	}, nil
}

// Run starts the REPL on stdin and returns when the user exits or input ends.
// An open session is closed on the way out.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Logout(ctx, a.session)

	fmt.Fprintln(a.out, "Password vault (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Active()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.session.Username)
}
