package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) List(ctx context.Context) error {
	entries := a.entryService.List(a.session)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet. Use 'add' to store one.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tUSERNAME\tNOTES\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Site, e.Username, e.Notes, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// Add prompts for a new entry. An empty password asks the generator for one.
func (a *App) Add(ctx context.Context) error {
	site, err := getSimpleText(a.reader, "Site", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	secret, err := getPassword(a.reader, "Password (empty to generate)", a.out)
	if err != nil {
		return err
	}
	if len(secret) == 0 {
		generated, err := a.passwordService.Generate(a.defaultGenerateOptions())
		if err != nil {
			return err
		}
		secret = []byte(generated)
		fmt.Fprintf(a.out, "Generated password: %s\n", generated)
	}

	analysis := a.passwordService.Analyze(string(secret))
	fmt.Fprintf(a.out, "Strength: %s (%d/100)\n", analysis.Tier, analysis.Score)

	notes, err := GetMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}

	if err := a.entryService.Add(ctx, a.session, site, userName, string(secret), notes); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Entry saved.")
	return nil
}

// Show decrypts and prints one secret.
func (a *App) Show(ctx context.Context) error {
	site, err := getSimpleText(a.reader, "Site", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	secret, err := a.entryService.GetSecret(a.session, site, userName)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password: %s\n", secret)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	site, err := getSimpleText(a.reader, "Site", a.out)
	if err != nil {
		return err
	}
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %s / %s?", site, userName), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.entryService.Delete(ctx, a.session, site, userName); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Entry deleted.")
	return nil
}
