package parser

import (
	"testing"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/lexer"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	if len(prog.Items) != 1 {
		t.Fatalf("expected exactly one top-level item, got %d", len(prog.Items))
	}
	return prog.Items[0].Node
}

func TestParseSimpleCommand(t *testing.T) {
	node := parseOne(t, "echo hello world\n")
	cmd, ok := node.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("expected *ast.SimpleCommand, got %T", node)
	}
	if len(cmd.Words) != 3 || cmd.Words[0].Raw != "echo" {
		t.Fatalf("unexpected words: %+v", cmd.Words)
	}
}

func TestParseAssignmentPrefix(t *testing.T) {
	node := parseOne(t, "FOO=bar echo $FOO\n")
	cmd, ok := node.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("expected *ast.SimpleCommand, got %T", node)
	}
	if len(cmd.Assigns) != 1 || cmd.Assigns[0].Name != "FOO" {
		t.Fatalf("unexpected assigns: %+v", cmd.Assigns)
	}
	if len(cmd.Words) != 2 {
		t.Fatalf("unexpected words: %+v", cmd.Words)
	}
}

func TestParsePipeline(t *testing.T) {
	node := parseOne(t, "cat file | grep x | wc -l\n")
	pipe, ok := node.(*ast.Pipeline)
	if !ok {
		t.Fatalf("expected *ast.Pipeline, got %T", node)
	}
	if len(pipe.Commands) != 3 {
		t.Fatalf("expected 3 pipeline commands, got %d", len(pipe.Commands))
	}
}

func TestParseAndOr(t *testing.T) {
	node := parseOne(t, "false && echo A || echo B\n")
	andor, ok := node.(*ast.AndOr)
	if !ok {
		t.Fatalf("expected *ast.AndOr, got %T", node)
	}
	if len(andor.Rest) != 2 {
		t.Fatalf("expected 2 and/or terms, got %d", len(andor.Rest))
	}
	if andor.Rest[0].Op != ast.AndOp || andor.Rest[1].Op != ast.OrOp {
		t.Fatalf("unexpected op sequence: %+v", andor.Rest)
	}
}

func TestParseIf(t *testing.T) {
	node := parseOne(t, "if true; then echo yes; else echo no; fi\n")
	ifNode, ok := node.(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", node)
	}
	if len(ifNode.Branches) != 1 || ifNode.Else == nil {
		t.Fatalf("unexpected if shape: %+v", ifNode)
	}
}

func TestParseWhileLoop(t *testing.T) {
	node := parseOne(t, "while true; do echo x; done\n")
	loop, ok := node.(*ast.Loop)
	if !ok || loop.Kind != ast.LoopWhile {
		t.Fatalf("expected while loop, got %T", node)
	}
}

func TestParseForLoop(t *testing.T) {
	node := parseOne(t, "for i in a b c; do echo $i; done\n")
	forNode, ok := node.(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", node)
	}
	if forNode.Name != "i" || len(forNode.InWords) != 3 {
		t.Fatalf("unexpected for shape: %+v", forNode)
	}
}

func TestParseCase(t *testing.T) {
	node := parseOne(t, "case $x in a) echo A;; b|c) echo BC;; esac\n")
	caseNode, ok := node.(*ast.Case)
	if !ok {
		t.Fatalf("expected *ast.Case, got %T", node)
	}
	if len(caseNode.Items) != 2 || len(caseNode.Items[1].Patterns) != 2 {
		t.Fatalf("unexpected case shape: %+v", caseNode)
	}
}

func TestParseSubshellAndBraceGroup(t *testing.T) {
	if _, ok := parseOne(t, "(echo x)\n").(*ast.Subshell); !ok {
		t.Fatal("expected *ast.Subshell")
	}
	if _, ok := parseOne(t, "{ echo x; }\n").(*ast.BraceGroup); !ok {
		t.Fatal("expected *ast.BraceGroup")
	}
}

func TestParseFunctionDef(t *testing.T) {
	node := parseOne(t, "greet() { echo hi; }\n")
	fn, ok := node.(*ast.FuncDef)
	if !ok || fn.Name != "greet" {
		t.Fatalf("expected function def named greet, got %+v", node)
	}
}

func TestParseRedirection(t *testing.T) {
	node := parseOne(t, "echo hi > out.txt\n")
	cmd, ok := node.(*ast.SimpleCommand)
	if !ok || len(cmd.Redirects) != 1 {
		t.Fatalf("expected one redirect, got %+v", node)
	}
	if cmd.Redirects[0].Op != ast.RedirWrite || cmd.Redirects[0].Target.Raw != "out.txt" {
		t.Fatalf("unexpected redirect: %+v", cmd.Redirects[0])
	}
}

func TestParseHeredoc(t *testing.T) {
	src := "cat <<EOF\nhello\nEOF\n"
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	cmd := prog.Items[0].Node.(*ast.SimpleCommand)
	if len(cmd.Redirects) != 1 || cmd.Redirects[0].Op != ast.RedirHeredoc {
		t.Fatalf("expected one heredoc redirect, got %+v", cmd.Redirects)
	}
	body, ok := p.Heredoc(cmd.Redirects[0].HeredocID)
	if !ok {
		t.Fatal("expected heredoc body to resolve")
	}
	if len(body.Parts) != 1 || body.Parts[0].Literal != "hello\n" {
		t.Fatalf("unexpected heredoc body: %+v", body)
	}
}
