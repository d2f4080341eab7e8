package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/services"
)

func (a *App) defaultGenerateOptions() services.GenerateOptions {
	return services.GenerateOptions{
		Length:  a.config.GeneratorLength,
		Symbols: a.config.GeneratorSymbols,
	}
}

// Analyze scores a password typed by the user and prints the suggestions.
func (a *App) Analyze(ctx context.Context) error {
	password, err := getPassword(a.reader, "Password to analyze", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.passwordService.Analyze(string(password))
	fmt.Fprintf(a.out, "Score: %d/100 (%s)\n", res.Score, res.Tier)
	for _, s := range res.Suggestions {
		fmt.Fprintf(a.out, "  - %s\n", s)
	}
	return nil
}

// Generate prints a new password. Arguments: "memorable", a length, and
// "nosymbols", in any order.
func (a *App) Generate(ctx context.Context, args []string) error {
	opts := a.defaultGenerateOptions()
	for _, arg := range args {
		switch arg {
		case "memorable":
			opts.Memorable = true
		case "nosymbols":
			opts.Symbols = false
		case "symbols":
			opts.Symbols = true
		default:
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: unknown generate option %q", common.ErrInvalidArgument, arg)
			}
			opts.Length = n
		}
	}

	pw, err := a.passwordService.Generate(opts)
	if err != nil {
		return err
	}
	res := a.passwordService.Analyze(pw)
	fmt.Fprintf(a.out, "%s\nStrength: %s (%d/100)\n", pw, res.Tier, res.Score)
	return nil
}
