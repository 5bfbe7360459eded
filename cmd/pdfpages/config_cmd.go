package main

import (
	"fmt"

	"github.com/alnah/go-pdfpages/internal/yamlutil"
)

// runConfigCmd prints the merged settings convert would use.
// Positional arguments are ignored so a full convert command line can be
// checked by swapping the command name.
func runConfigCmd(args []string, env *Environment) int {
	flags, _, err := parseConvertFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, _, err := resolveConfig(flags, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	if err := yamlutil.Encode(env.Stdout, cfg); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitGeneral
	}
	return ExitSuccess
}
