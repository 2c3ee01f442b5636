// Package parser is the reference recursive-descent parser that turns
// an internal/lexer token stream into internal/ast nodes. spec.md §1
// treats the parser as an external collaborator to the core four
// components; this package is the stand-in implementation used by
// cmd/posh and the test suite.
package parser

import (
	"fmt"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/token"
)

// Parser turns one lexer's token stream into a syntax tree.
type Parser struct {
	lex  *lexer.Lexer
	tok  token.Token
	errs []error
}

// New creates a parser reading from lex. The first token is primed
// immediately so Parser.tok is always valid.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

// Errors returns every syntax error accumulated while parsing, plus any
// lexical errors the underlying lexer recorded.
func (p *Parser) Errors() []error {
	all := append([]error(nil), p.errs...)
	for _, le := range p.lex.Errors() {
		all = append(all, le)
	}
	return all
}

func (p *Parser) advance() {
	p.tok = p.lex.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", p.tok.Pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) isOperator(raw string) bool {
	return p.tok.Kind == token.OPERATOR && p.tok.Raw == raw
}

func (p *Parser) isKeyword(raw string) bool {
	return p.tok.Kind == token.KEYWORD && p.tok.Raw == raw
}

func (p *Parser) skipNewlines() {
	for p.tok.Kind == token.NEWLINE {
		p.advance()
	}
}

// ParseProgram parses a complete script: a sequence of lists, each
// terminated by a newline or ';', until EOF.
func (p *Parser) ParseProgram() *ast.List {
	list := &ast.List{}
	p.skipNewlines()
	for p.tok.Kind != token.EOF {
		item, bg := p.parseAndOrAsItem()
		if item == nil {
			p.advance()
			continue
		}
		for p.isOperator(";") || p.isOperator("&") || p.tok.Kind == token.NEWLINE {
			p.advance()
		}
		p.resolveHeredocs(item)
		list.Items = append(list.Items, ast.ListItem{Node: item, Background: bg})
		p.skipNewlines()
	}
	return list
}

// parseAndOrAsItem parses one and_or list and reports whether it was
// followed by a backgrounding '&'.
func (p *Parser) parseAndOrAsItem() (ast.Node, bool) {
	node := p.parseAndOr()
	bg := p.isOperator("&")
	return node, bg
}

// parseAndOr parses a left-associative chain of pipelines joined by
// "&&"/"||".
func (p *Parser) parseAndOr() ast.Node {
	first := p.parsePipeline()
	if first == nil {
		return nil
	}
	andOr := &ast.AndOr{First: first}
	for p.isOperator("&&") || p.isOperator("||") {
		op := ast.AndOp
		if p.tok.Raw == "||" {
			op = ast.OrOp
		}
		p.advance()
		p.skipNewlines()
		next := p.parsePipeline()
		if next == nil {
			p.errorf("expected command after %q", map[ast.AndOrOp]string{ast.AndOp: "&&", ast.OrOp: "||"}[op])
			break
		}
		andOr.Rest = append(andOr.Rest, ast.AndOrTerm{Op: op, Node: next})
	}
	if len(andOr.Rest) == 0 {
		return first
	}
	return andOr
}

// parsePipeline parses "[!] command ('|' newline* command)*".
func (p *Parser) parsePipeline() ast.Node {
	negate := false
	if p.isKeyword("!") {
		negate = true
		p.advance()
	}
	first := p.parseCommand()
	if first == nil {
		return nil
	}
	if !negate && !p.isOperator("|") {
		return first
	}
	pipe := &ast.Pipeline{Negate: negate, Commands: []ast.Node{first}}
	for p.isOperator("|") {
		p.advance()
		p.skipNewlines()
		cmd := p.parseCommand()
		if cmd == nil {
			p.errorf("expected command after '|'")
			break
		}
		pipe.Commands = append(pipe.Commands, cmd)
	}
	return pipe
}

// parseCommand dispatches to a compound command form or a simple
// command based on the next token (spec.md §4.3 "Command resolution
// precedence" begins at the AST shape, not the executor).
func (p *Parser) parseCommand() ast.Node {
	switch {
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("while"):
		return p.parseLoop(ast.LoopWhile)
	case p.isKeyword("until"):
		return p.parseLoop(ast.LoopUntil)
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("case"):
		return p.parseCase()
	case p.isKeyword("{"):
		return p.parseBraceGroup()
	case p.isOperator("("):
		return p.parseSubshell()
	case p.isKeyword("function"):
		return p.parseFunctionDefKeyword()
	case p.tok.Kind == token.WORD && p.looksLikeFunctionDef():
		return p.parseFunctionDef()
	case p.tok.Kind == token.WORD || p.tok.Kind == token.ASSIGNMENT || p.tok.Kind == token.IONUMBER:
		return p.parseSimpleCommand()
	default:
		return nil
	}
}

func (p *Parser) looksLikeFunctionDef() bool {
	if p.tok.Kind != token.WORD {
		return false
	}
	next := p.lex.Peek(0)
	after := p.lex.Peek(1)
	return next.Kind == token.OPERATOR && next.Raw == "(" &&
		after.Kind == token.OPERATOR && after.Raw == ")"
}

// --- simple commands ---------------------------------------------------

func (p *Parser) parseSimpleCommand() *ast.SimpleCommand {
	cmd := &ast.SimpleCommand{}
	for {
		switch {
		case p.tok.Kind == token.ASSIGNMENT:
			cmd.Assigns = append(cmd.Assigns, ast.Assignment{
				Name:  p.tok.AssignName,
				Value: ast.Word{Raw: p.tok.Raw, Word: p.tok.Word},
			})
			p.advance()
		case p.tok.Kind == token.IONUMBER || p.isRedirectStart():
			r, ok := p.parseRedirect()
			if !ok {
				p.advance()
				continue
			}
			cmd.Redirects = append(cmd.Redirects, r)
		case p.tok.Kind == token.WORD:
			cmd.Words = append(cmd.Words, ast.Word{Raw: p.tok.Raw, Word: p.tok.Word})
			p.advance()
		default:
			return cmd
		}
	}
}

func (p *Parser) isRedirectStart() bool {
	if p.tok.Kind != token.OPERATOR {
		return false
	}
	switch p.tok.Raw {
	case "<", "<<", "<<-", "<&", "<>", ">", ">>", ">&", ">|":
		return true
	default:
		return false
	}
}

var redirOps = map[string]ast.RedirOp{
	"<":   ast.RedirRead,
	"<<":  ast.RedirHeredoc,
	"<<-": ast.RedirHeredocTab,
	"<&":  ast.RedirDupIn,
	"<>":  ast.RedirReadWrite,
	">":   ast.RedirWrite,
	">>":  ast.RedirAppend,
	">&":  ast.RedirDupOut,
	">|":  ast.RedirClobber,
}

// parseRedirect parses one redirection, consuming an optional preceding
// IONUMBER token.
func (p *Parser) parseRedirect() (ast.Redirect, bool) {
	r := ast.Redirect{Fd: -1}
	if p.tok.Kind == token.IONUMBER {
		n := 0
		for _, c := range p.tok.Raw {
			n = n*10 + int(c-'0')
		}
		r.Fd = n
		r.HasFd = true
		p.advance()
	}
	if !p.isRedirectStart() {
		p.errorf("expected redirection operator")
		return r, false
	}
	op, ok := redirOps[p.tok.Raw]
	if !ok {
		p.errorf("unknown redirection operator %q", p.tok.Raw)
		return r, false
	}
	r.Op = op
	heredocID := p.tok.HeredocID
	p.advance()
	if op == ast.RedirHeredoc || op == ast.RedirHeredocTab {
		r.HeredocID = heredocID
		if p.tok.Kind == token.WORD {
			p.advance()
		}
		return r, true
	}
	if p.tok.Kind != token.WORD {
		p.errorf("expected word after redirection operator")
		return r, false
	}
	r.Target = ast.Word{Raw: p.tok.Raw, Word: p.tok.Word}
	p.advance()
	return r, true
}

// --- compound commands --------------------------------------------------

func (p *Parser) parseCompoundBodyRedirects() []ast.Redirect {
	var rs []ast.Redirect
	for p.tok.Kind == token.IONUMBER || p.isRedirectStart() {
		r, ok := p.parseRedirect()
		if !ok {
			break
		}
		rs = append(rs, r)
	}
	return rs
}

func (p *Parser) parseIf() *ast.If {
	p.advance() // consume "if"
	node := &ast.If{}
	for {
		cond := p.parseCompoundList()
		p.expectKeyword("then")
		body := p.parseCompoundList()
		node.Branches = append(node.Branches, ast.IfBranch{Cond: cond, Body: body})
		if p.isKeyword("elif") {
			p.advance()
			continue
		}
		break
	}
	if p.isKeyword("else") {
		p.advance()
		node.Else = p.parseCompoundList()
	}
	p.expectKeyword("fi")
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseLoop(kind ast.LoopKind) *ast.Loop {
	p.advance() // consume "while"/"until"
	node := &ast.Loop{Kind: kind}
	node.Cond = p.parseCompoundList()
	p.expectKeyword("do")
	node.Body = p.parseCompoundList()
	p.expectKeyword("done")
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseFor() *ast.For {
	p.advance() // consume "for"
	node := &ast.For{}
	if p.tok.Kind != token.WORD && p.tok.Kind != token.ASSIGNMENT {
		p.errorf("expected name after 'for'")
		return node
	}
	node.Name = p.tok.Raw
	if p.tok.Kind == token.ASSIGNMENT {
		node.Name = p.tok.AssignName
	}
	p.advance()
	p.skipNewlines()
	if p.isKeyword("in") || (p.tok.Kind == token.WORD && p.tok.Raw == "in") {
		node.HasIn = true
		p.advance()
		for p.tok.Kind == token.WORD {
			node.InWords = append(node.InWords, ast.Word{Raw: p.tok.Raw, Word: p.tok.Word})
			p.advance()
		}
	}
	for p.isOperator(";") || p.tok.Kind == token.NEWLINE {
		p.advance()
	}
	p.expectKeyword("do")
	node.Body = p.parseCompoundList()
	p.expectKeyword("done")
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseCase() *ast.Case {
	p.advance() // consume "case"
	node := &ast.Case{}
	if p.tok.Kind != token.WORD {
		p.errorf("expected word after 'case'")
		return node
	}
	node.Subject = ast.Word{Raw: p.tok.Raw, Word: p.tok.Word}
	p.advance()
	p.skipNewlines()
	if p.tok.Kind == token.WORD && p.tok.Raw == "in" {
		p.advance()
	} else {
		p.expectKeyword("in")
	}
	p.skipNewlines()
	for !p.isKeyword("esac") && p.tok.Kind != token.EOF {
		item := ast.CaseItem{}
		if p.isOperator("(") {
			p.advance()
		}
		for {
			if p.tok.Kind != token.WORD {
				p.errorf("expected pattern in case item")
				break
			}
			item.Patterns = append(item.Patterns, ast.Word{Raw: p.tok.Raw, Word: p.tok.Word})
			p.advance()
			if p.isOperator("|") {
				p.advance()
				continue
			}
			break
		}
		if !p.isOperator(")") {
			p.errorf("expected ')' in case item")
		} else {
			p.advance()
		}
		p.skipNewlines()
		if !p.isOperator(";;") && !p.isKeyword("esac") {
			item.Body = p.parseCompoundList()
		}
		node.Items = append(node.Items, item)
		if p.isOperator(";;") {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expectKeyword("esac")
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseBraceGroup() *ast.BraceGroup {
	p.advance() // consume "{"
	node := &ast.BraceGroup{}
	node.Body = p.parseCompoundList()
	p.expectKeyword("}")
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseSubshell() *ast.Subshell {
	p.advance() // consume "("
	node := &ast.Subshell{}
	node.Body = p.parseCompoundList()
	if !p.isOperator(")") {
		p.errorf("expected ')'")
	} else {
		p.advance()
	}
	node.Redirects = p.parseCompoundBodyRedirects()
	return node
}

func (p *Parser) parseFunctionDef() *ast.FuncDef {
	name := p.tok.Raw
	p.advance() // name
	p.advance() // "("
	p.advance() // ")"
	p.skipNewlines()
	body := p.parseCommand()
	return &ast.FuncDef{Name: name, Body: body}
}

func (p *Parser) parseFunctionDefKeyword() *ast.FuncDef {
	p.advance() // consume "function"
	name := p.tok.Raw
	p.advance()
	if p.isOperator("(") {
		p.advance()
		if p.isOperator(")") {
			p.advance()
		}
	}
	p.skipNewlines()
	body := p.parseCommand()
	return &ast.FuncDef{Name: name, Body: body}
}

// compoundTerminators lists the reserved words that end a compound
// command's body list rather than starting a nested command.
var compoundTerminators = map[string]bool{
	"then": true, "elif": true, "else": true, "fi": true,
	"do": true, "done": true, "esac": true, "}": true, "in": true,
}

// parseCompoundList parses a list of and_or terms inside a compound
// command body, terminated by whatever keyword the caller expects next.
func (p *Parser) parseCompoundList() ast.Node {
	p.skipNewlines()
	list := &ast.List{}
	for {
		if p.tok.Kind == token.EOF || p.isOperator(")") {
			break
		}
		if p.tok.Kind == token.KEYWORD && compoundTerminators[p.tok.Raw] {
			break
		}
		item, bg := p.parseAndOrAsItem()
		if item == nil {
			break
		}
		list.Items = append(list.Items, ast.ListItem{Node: item, Background: bg})
		consumed := false
		for p.isOperator(";") || p.isOperator("&") || p.tok.Kind == token.NEWLINE {
			p.advance()
			consumed = true
		}
		p.skipNewlines()
		if !consumed {
			break
		}
	}
	if len(list.Items) == 1 && !list.Items[0].Background {
		return list.Items[0].Node
	}
	return list
}

// Heredoc returns the resolved body Word for a "<<"/"<<-" redirect's
// HeredocID, once the NEWLINE ending its operator's line has been parsed.
// resolveHeredocs calls this to fill in each RedirHeredoc(Tab) redirect's
// Target before ParseProgram returns.
func (p *Parser) Heredoc(id int) (token.Word, bool) {
	return p.lex.Heredoc(id)
}

func (p *Parser) expectKeyword(word string) {
	if !p.isKeyword(word) {
		p.errorf("expected %q, got %s", word, p.tok)
		return
	}
	p.advance()
}
