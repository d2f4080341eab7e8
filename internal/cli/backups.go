package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/pwvault/internal/common"
)

func (a *App) askPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return getSimpleText(a.reader, "Backup file (name in the backup directory or full path)", a.out)
}

// Export writes all entries of the session into a new backup container.
func (a *App) Export(ctx context.Context) error {
	password, err := getPassword(a.reader, "Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Repeat backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return common.ErrPasswordMismatch
	}

	res, err := a.backupService.Export(ctx, a.session, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d entries to %s\n", res.Entries, res.Path)
	switch {
	case res.Remote != "":
		fmt.Fprintf(a.out, "Copied to %s\n", res.Remote)
	case res.MirrorErr != nil:
		fmt.Fprintf(a.out, "Warning: remote copy failed: %v\n", res.MirrorErr)
	}
	return nil
}

// Import merges a backup container into the open vault.
func (a *App) Import(ctx context.Context, path string) error {
	path, err := a.askPath(path)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	report, err := a.backupService.Import(ctx, a.session, path, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported: %d, skipped (already present): %d, errors: %d\n",
		report.Imported, report.Skipped, report.Errors)
	return nil
}

func (a *App) Backups(ctx context.Context) error {
	list, err := a.backupService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No backups found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tUSER\tCREATED\tSIZE")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.FileName, s.Username, s.TimestampLabel, s.Size)
	}
	return tw.Flush()
}

// Info decrypts a container and prints its header.
func (a *App) Info(ctx context.Context, path string) error {
	path, err := a.askPath(path)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Backup password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	info, err := a.backupService.Info(ctx, path, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "File:     %s\n", info.Path)
	fmt.Fprintf(a.out, "User:     %s\n", info.Username)
	fmt.Fprintf(a.out, "Created:  %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Entries:  %d\n", info.EntryCount)
	fmt.Fprintf(a.out, "Format:   %s\n", info.FormatVersion)
	fmt.Fprintf(a.out, "Size:     %d bytes\n", info.Size)
	return nil
}

func (a *App) RemoveBackup(ctx context.Context, path string) error {
	path, err := a.askPath(path)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete backup %s?", path), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.backupService.Delete(ctx, path); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Backup deleted.")
	return nil
}
