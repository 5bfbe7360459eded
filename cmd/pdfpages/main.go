package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		ctx, stop := notifyContext(env.Context())
		defer stop()
		return runConvertCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "config":
		return runConfigCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "pdfpages %s\n", Version)
		return ExitSuccess
	case "completion":
		return runCompletionCmd(rest, env)
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
	if strings.EqualFold(filepath.Ext(cmd), ".pdf") {
		fmt.Fprintf(env.Stderr, "  hint: run 'pdfpages convert %s'\n", cmd)
	}
	fmt.Fprintln(env.Stderr)
	printUsage(env.Stderr)
	return ExitUsage
}

// hasVerboseFlag scans raw args for -v/--verbose before flags are parsed.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
