package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/filex"
)

// Summary is a preview of a container derived from its name and file
// metadata only.
type Summary struct {
	FileName       string
	Path           string
	Size           int64
	ModifiedAt     time.Time
	Username       string
	Timestamp      time.Time
	TimestampLabel string
}

// parseFileName splits backup_<username>_<YYYYMMDD>_<HHMMSS>.pwbak from the
// right, so usernames containing underscores survive.
func parseFileName(name string) (string, time.Time, bool) {
	base, ok := strings.CutSuffix(name, FileExt)
	if !ok {
		return "", time.Time{}, false
	}
	base, ok = strings.CutPrefix(base, filePrefix)
	if !ok {
		return "", time.Time{}, false
	}

	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", time.Time{}, false
	}
	n := len(parts)
	ts, err := time.ParseInLocation(timestampLayout, parts[n-2]+"_"+parts[n-1], time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	user := strings.Join(parts[:n-2], "_")
	if user == "" {
		return "", time.Time{}, false
	}
	return user, ts, true
}

// ListAvailable returns the containers in dir, newest first by modification
// time. A missing directory yields an empty list.
func (c *Codec) ListAvailable(ctx context.Context, dir string) ([]Summary, error) {
	if dir == "" {
		dir = c.dir
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("%w: %w", common.ErrIO, err)
	}

	out := make([]Summary, 0, len(des))
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != FileExt {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			c.log.Warn(ctx, "skipping unreadable backup", "file", de.Name(), "error", err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}

		s := Summary{
			FileName:       de.Name(),
			Path:           filepath.Join(dir, de.Name()),
			Size:           fi.Size(),
			ModifiedAt:     fi.ModTime(),
			Username:       common.UnknownLabel,
			TimestampLabel: common.UnknownLabel,
		}
		if user, ts, ok := parseFileName(de.Name()); ok {
			s.Username = user
			s.Timestamp = ts
			s.TimestampLabel = ts.Format("2006-01-02 15:04:05")
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ModifiedAt.Equal(out[j].ModifiedAt) {
			return out[i].FileName > out[j].FileName
		}
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	return out, nil
}

// Delete removes the container at path. The path is resolved, symlinks
// included, and must point inside the backup directory.
func (c *Codec) Delete(ctx context.Context, path string) error {
	inside, resolved, err := filex.IsWithinDir(c.dir, path)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if !inside {
		c.log.Warn(ctx, "refusing to delete file outside backup directory", "path", path)
		return common.ErrPathEscapesBackupDirectory
	}

	fi, err := os.Lstat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrFileNotFound
		}
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", common.ErrFileNotFound, filepath.Base(resolved))
	}

	if err := os.Remove(resolved); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	c.log.Info(ctx, "backup deleted", "file", filepath.Base(resolved))
	return nil
}
