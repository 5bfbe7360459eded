package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
	Args        []string // fixed values for the first argument
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"dpi":    {Values: []string{"72", "96", "150", "300", "600"}},
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsDir: true},
}

var supportedShells = []string{
	string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell),
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	convert := extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))
	doctor := extractFlagsFromFlagSet(newDoctorFlagSet(&doctorFlags{}))

	cmds := []commandDef{
		{
			Name:        "convert",
			Desc:        "Split a PDF into per-page PDFs and images",
			Flags:       convert,
			TakesFiles:  true,
			FilePattern: "*.pdf",
		},
		{Name: "doctor", Desc: "Check renderers, encoders, and environment", Flags: doctor},
		{Name: "config", Desc: "Print the effective settings as YAML", Flags: convert},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
	}

	names := commandNames(cmds)
	for i := range cmds {
		if cmds[i].Name == "help" {
			cmds[i].Args = names
		}
	}
	return cmds
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagNames returns every spelling of the flags: --long, then -s if any.
func flagNames(flags []flagDef) []string {
	var names []string
	for _, f := range flags {
		names = append(names, "--"+f.Long)
		if f.Short != "" {
			names = append(names, "-"+f.Short)
		}
	}
	return names
}

// globs splits a comma-separated glob list.
func globs(pattern string) []string {
	var out []string
	for _, g := range strings.Split(pattern, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for pdfpages\n\n")
	b.WriteString("_pdfpages_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %s -- \"$cur\"))\n", bashWords(commandNames(cmds)))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var valueFlags []flagDef
		for _, f := range c.Flags {
			if f.takesValue() {
				valueFlags = append(valueFlags, f)
			}
		}
		if len(valueFlags) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range valueFlags {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern = "-" + f.Short + "|" + pattern
				}
				fmt.Fprintf(&b, "        %s)\n", pattern)
				if reply := bashFlagReply(f); reply != "" {
					fmt.Fprintf(&b, "            COMPREPLY=(%s)\n", reply)
				}
				b.WriteString("            return\n")
				b.WriteString("            ;;\n")
			}
			b.WriteString("        esac\n")
		}

		if len(c.Flags) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %s -- \"$cur\"))\n", bashWords(flagNames(c.Flags)))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}

		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "        COMPREPLY=(%s)\n", bashFiles(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        if [[ ${COMP_CWORD} -eq 2 ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %s -- \"$cur\"))\n", bashWords(c.Args))
			b.WriteString("        fi\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _pdfpages_completions pdfpages\n")
	return b.String()
}

func bashFlagReply(f flagDef) string {
	switch f.Type {
	case flagDir:
		return `$(compgen -d -- "$cur")`
	case flagFile:
		return bashFiles(f.FileGlob)
	case flagEnum:
		return fmt.Sprintf(`$(compgen -W %s -- "$cur")`, bashWords(f.Values))
	default:
		return ""
	}
}

// bashFiles completes directories plus files matching each glob.
func bashFiles(pattern string) string {
	parts := []string{`$(compgen -d -- "$cur")`}
	for _, g := range globs(pattern) {
		parts = append(parts, fmt.Sprintf(`$(compgen -f -X '!%s' -- "$cur")`, g))
	}
	return strings.Join(parts, " ")
}

func bashWords(words []string) string {
	return `"` + strings.Join(words, " ") + `"`
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef pdfpages\n\n")
	b.WriteString("_pdfpages() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var specs []string
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case c.TakesFiles:
			specs = append(specs, fmt.Sprintf(`'*:file:_files -g "%s"'`, strings.Join(globs(c.FilePattern), " ")))
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:%s:(%s)'", c.Name, strings.Join(c.Args, " ")))
		}

		if len(specs) > 0 {
			b.WriteString("        _arguments -s \\\n")
			for i, spec := range specs {
				b.WriteString("            " + spec)
				if i < len(specs)-1 {
					b.WriteString(" \\")
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("if [ \"$funcstack[1]\" = \"_pdfpages\" ]; then\n")
	b.WriteString("    _pdfpages \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _pdfpages pdfpages\n")
	b.WriteString("fi\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
	case flagDir:
		action = ":" + f.Long + ":_files -/"
	case flagFile:
		action = fmt.Sprintf(`:%s:_files -g "%s"`, f.Long, strings.Join(globs(f.FileGlob), " "))
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	default:
		action = ":" + f.Long + ": "
	}

	desc := zshEscape(f.Desc)
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

var zshReplacer = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshEscape(s string) string {
	return zshReplacer.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for pdfpages\n\n")
	b.WriteString("function __fish_pdfpages_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_pdfpages_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c pdfpages -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c pdfpages -n __fish_pdfpages_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_pdfpages_using_command %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := "complete -c pdfpages -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d '" + fishEscape(f.Desc) + "'"
			if action := fishFlagAction(f); action != "" {
				line += " " + action
			}
			b.WriteString(line + "\n")
		}
		switch {
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c pdfpages -n %s -a '%s'\n", cond, fishSuffixes(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c pdfpages -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
	}
	return b.String()
}

func fishFlagAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagDir:
		return "-x -a '(__fish_complete_directories)'"
	case flagFile:
		return "-x -a '" + fishSuffixes(f.FileGlob) + "'"
	case flagEnum:
		return "-x -a '" + strings.Join(f.Values, " ") + "'"
	default:
		return "-x"
	}
}

// fishSuffixes turns "*.yaml,*.yml" into calls to __fish_complete_suffix.
func fishSuffixes(pattern string) string {
	var calls []string
	for _, g := range globs(pattern) {
		calls = append(calls, "__fish_complete_suffix "+strings.TrimPrefix(g, "*"))
	}
	return "(" + strings.Join(calls, "; ") + ")"
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# powershell completion for pdfpages\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName pdfpages -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) > 0 {
			fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psArray(flagNames(c.Flags)))
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			fmt.Fprintf(&b, "        '%s --%s' = %s\n", c.Name, f.Long, psArray(f.Values))
			if f.Short != "" {
				fmt.Fprintf(&b, "        '%s -%s' = %s\n", c.Name, f.Short, psArray(f.Values))
			}
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $positional = @{\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psArray(c.Args))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    if ($wordToComplete) { $words = $words[0..($words.Count - 2)] }

    if ($words.Count -le 1) {
        foreach ($name in $commands.Keys) {
            if ($name -like "$wordToComplete*") {
                [System.Management.Automation.CompletionResult]::new($name, $name, 'ParameterValue', $commands[$name])
            }
        }
        return
    }

    $cmd = $words[1]
    $key = "$cmd $($words[-1])"
    if ($values.ContainsKey($key)) {
        $values[$key] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {
        $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
        return
    }

    if ($words.Count -eq 2 -and $positional.ContainsKey($cmd)) {
        $positional[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
}
`)
	return b.String()
}

func psArray(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = "'" + psEscape(it) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, `'`, `''`)
}

// ---------------------------------------------------------------------------
// Command
// ---------------------------------------------------------------------------

// runCompletionCmd prints the script for the shell named in args, or the
// completion usage when no shell is given.
func runCompletionCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}

	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfpages completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(pdfpages completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(pdfpages completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    pdfpages completion fish > ~/.config/fish/completions/pdfpages.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    pdfpages completion powershell | Out-String | Invoke-Expression")
}
