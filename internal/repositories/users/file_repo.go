package users

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/filex"
)

const fileExt = ".json"

type FileRepository struct {
	dir string
}

// NewFileRepository returns a repository rooted at dir, creating it if needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	return &FileRepository{dir: abs}, nil
}

// Path returns the record file location for username. The username must
// already be normalized and validated.
func (r *FileRepository) Path(username string) string {
	return filepath.Join(r.dir, username+fileExt)
}

func (r *FileRepository) Exists(ctx context.Context, username string) (bool, error) {
	ok, err := filex.Exists(r.Path(username))
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", common.ErrIO, username, err)
	}
	return ok, nil
}

func (r *FileRepository) Load(ctx context.Context, username string) ([]byte, error) {
	data, err := os.ReadFile(r.Path(username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %w", common.ErrIO, username, err)
	}
	return data, nil
}

func (r *FileRepository) Save(ctx context.Context, username string, data []byte) error {
	if err := filex.WriteFileAtomic(r.Path(username), data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	return nil
}
