// Package flagx helps several independent parsers share one command line.
package flagx

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// FilterArgs returns the subset of args made of the flags listed in
// allowedFlags together with their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.yaml
//  2. Flag and value combined with '=':      --config=conf.yaml
//
// A token following an allowed flag is treated as its value unless it starts
// with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag extracts the configuration file path given with -c or
// --config from args (usually os.Args[1:]). Other arguments are ignored; an
// empty string means no file was requested.
func ConfigFileFlag(args []string) string {
	var config string

	fs := pflag.NewFlagSet("config-file", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&config, "config", "c", "", "path to config file (JSON or YAML)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "--config"}))

	return config
}
