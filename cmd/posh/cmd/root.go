// Package cmd implements the posh command-line front end: a small cobra
// tree of subcommands (lex, parse, run, version) over the reference
// lexer, parser, and executor.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/spk121/posh/internal/builtin"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "posh",
	Short: "A POSIX-ish shell interpreter core",
	Long: `posh is a reference implementation of a POSIX shell interpreter
core: a lexer, word expander, executor, and frame/scope stack, plus a
small recursive-descent parser and builtin table that make the core
runnable end to end.

This binary is the reference driver around that core, not a production
login shell.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
