package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfpages <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Split a PDF into per-page PDFs and images")
	fmt.Fprintln(w, "  doctor     Check renderers, encoders, and environment")
	fmt.Fprintln(w, "  config     Print the effective settings as YAML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfpages help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfpages convert <input.pdf> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Split a PDF into one file per page. Images are trimmed to their")
	fmt.Fprintln(w, "content, padded, and scaled.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default <input>_pages)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --chapter <label>     Chapter label: 3 -> CH03_01.png, intro -> intro_01.png")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outputs (at least one):")
	fmt.Fprintln(w, "      --pdf                 One single-page PDF per page")
	fmt.Fprintln(w, "      --png                 One PNG per page")
	fmt.Fprintln(w, "      --webp                One WebP per page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --dpi <n>             Render resolution (default 300)")
	fmt.Fprintln(w, "      --padding <px>        White margin after trimming (default 0)")
	fmt.Fprintln(w, "      --scale <percent>     Final size, 10-400 (default 100)")
	fmt.Fprintln(w, "      --quality <n>         WebP quality, 1-100 (default 90)")
	fmt.Fprintln(w, "      --external            Render with pdftocairo/pdftoppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show backends, timing, and debug logs")
	fmt.Fprintln(w, "      --progress            Show a progress bar instead of lines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PDFPAGES_CONFIG, PDFPAGES_OUTPUT_DIR, PDFPAGES_FORMATS, PDFPAGES_DPI,")
	fmt.Fprintln(w, "  PDFPAGES_PADDING, PDFPAGES_SCALE, PDFPAGES_QUALITY, PDFPAGES_EXTERNAL,")
	fmt.Fprintln(w, "  PDFPAGES_CHAPTER, PDFPAGES_TEMP_DIR. Also read from ./.env.")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: pdfpages doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Report available renderers and WebP encoders.")
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: pdfpages config [convert flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print settings after merging config file, environment, and flags.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfpages version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfpages help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
