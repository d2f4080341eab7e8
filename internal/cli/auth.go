package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pwvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and the password twice and creates a new
// vault. The password slices are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.authService.Register(ctx, userName, password, confirm); err != nil {
		return err
	}

	analysis := a.passwordService.Analyze(string(password))
	fmt.Fprintf(a.out, "Account created. Password strength: %s (%d/100)\n", analysis.Tier, analysis.Score)
	return nil
}

// Login prompts for credentials and opens a session. A session that is
// already open is closed first.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.authService.Logout(ctx, a.session)
	a.session = s

	if s.Migrated {
		fmt.Fprintln(a.out, "Your vault was upgraded to the current file format.")
	}
	fmt.Fprintf(a.out, "Welcome, %s! %d entries stored.\n", s.Username, s.EntryCount())
	return nil
}

// Logout wipes the session keys.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx, a.session)
	a.session = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
