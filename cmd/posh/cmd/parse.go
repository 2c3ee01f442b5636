package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a shell script and display its syntax tree",
	Long: `Parse shell source and display the parsed syntax tree.

If no file is provided, reads from stdin. Use -e to parse inline text.
Use --dump-ast to show the full tree structure instead of a one-line
summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline text instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full syntax tree structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(parseEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("Syntax tree:")
		fmt.Println("============")
		dumpASTNode(program, 0)
	} else {
		fmt.Printf("%T\n", program)
	}
	return nil
}

func dumpASTNode(node ast.Node, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *ast.List:
		fmt.Printf("%sList (%d items)\n", pad, len(n.Items))
		for _, item := range n.Items {
			dumpASTNode(item.Node, indent+1)
		}
	case *ast.AndOr:
		fmt.Printf("%sAndOr\n", pad)
		dumpASTNode(n.First, indent+1)
		for _, term := range n.Rest {
			dumpASTNode(term.Node, indent+1)
		}
	case *ast.Pipeline:
		fmt.Printf("%sPipeline (negate=%v, %d stages)\n", pad, n.Negate, len(n.Commands))
		for _, c := range n.Commands {
			dumpASTNode(c, indent+1)
		}
	case *ast.SimpleCommand:
		words := make([]string, len(n.Words))
		for i, w := range n.Words {
			words[i] = w.Raw
		}
		fmt.Printf("%sSimpleCommand %v\n", pad, words)
	case *ast.Subshell:
		fmt.Printf("%sSubshell\n", pad)
		dumpASTNode(n.Body, indent+1)
	case *ast.BraceGroup:
		fmt.Printf("%sBraceGroup\n", pad)
		dumpASTNode(n.Body, indent+1)
	case *ast.If:
		fmt.Printf("%sIf (%d branches, else=%v)\n", pad, len(n.Branches), n.Else != nil)
		for _, b := range n.Branches {
			dumpASTNode(b.Cond, indent+1)
			dumpASTNode(b.Body, indent+1)
		}
		if n.Else != nil {
			dumpASTNode(n.Else, indent+1)
		}
	case *ast.Loop:
		fmt.Printf("%sLoop (kind=%v)\n", pad, n.Kind)
		dumpASTNode(n.Cond, indent+1)
		dumpASTNode(n.Body, indent+1)
	case *ast.For:
		fmt.Printf("%sFor %s (hasIn=%v)\n", pad, n.Name, n.HasIn)
		dumpASTNode(n.Body, indent+1)
	case *ast.Case:
		fmt.Printf("%sCase %s (%d items)\n", pad, n.Subject.Raw, len(n.Items))
		for _, item := range n.Items {
			dumpASTNode(item.Body, indent+1)
		}
	case *ast.FuncDef:
		fmt.Printf("%sFuncDef %s\n", pad, n.Name)
		dumpASTNode(n.Body, indent+1)
	case nil:
		fmt.Printf("%s<nil>\n", pad)
	default:
		fmt.Printf("%s%T\n", pad, node)
	}
}
