package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spk121/posh/cmd/posh/shellflags"
	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
)

var (
	runEval string
	runSet  string
)

var runCmd = &cobra.Command{
	Use:   "run [file] [-- args...]",
	Short: "Run a shell script",
	Long: `Run a shell script (or -e inline text, or stdin if neither is given)
against a fresh root frame, reporting the script's own exit status as
this process's exit status.

Arguments after the script name (or after "--") become the script's
positional parameters $1, $2, ...; the script path itself becomes $0.

--set takes a bundled option string exactly like "set" accepts on its
own command line, e.g. "-eu" to enable errexit and nounset before the
script starts running.`,
	Args: cobra.ArbitraryArgs,
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run inline text instead of reading from file")
	runCmd.Flags().StringVar(&runSet, "set", "", `bundled options to apply before running, e.g. "-eu"`)
}

func runScript(cmd *cobra.Command, args []string) error {
	var scriptName string
	var scriptArgs []string
	if runEval == "" && len(args) > 0 {
		scriptName = args[0]
		scriptArgs = args[1:]
	} else {
		scriptArgs = args
	}

	var fileArgs []string
	if scriptName != "" {
		fileArgs = []string{scriptName}
	}
	input, name, err := resolveInput(runEval, fileArgs)
	if err != nil {
		return err
	}
	if scriptName == "" {
		scriptName = name
	}

	fr := frame.NewRoot(scriptName, scriptArgs, os.Environ())

	if runSet != "" {
		toggles, ok := shellflags.Scan(runSet)
		if !ok {
			return fmt.Errorf("--set: %q is not a valid bundled option string", runSet)
		}
		shellflags.Apply(fr.Options, toggles)
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(2)
	}

	ex := exec.New()
	status := ex.RunTopLevel(fr, program)
	os.Exit(status)
	return nil
}
