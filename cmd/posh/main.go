// Command posh is the reference command-line driver around the shell
// interpreter core: lex, parse, run, and version subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spk121/posh/cmd/posh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
