package parser

import "github.com/spk121/posh/internal/ast"

// resolveHeredocs fills in the resolved body Word for every heredoc
// redirect within node. It must run after the NEWLINE ending the
// innermost heredoc operator's line has been consumed (Heredoc.go's
// Heredoc method is only valid at that point), which is why ParseProgram
// calls it once a whole top-level list item, including every nested
// compound command inside it, has finished parsing.
func (p *Parser) resolveHeredocs(node ast.Node) {
	switch n := node.(type) {
	case *ast.SimpleCommand:
		p.resolveRedirects(n.Redirects)
	case *ast.Pipeline:
		for _, c := range n.Commands {
			p.resolveHeredocs(c)
		}
	case *ast.AndOr:
		p.resolveHeredocs(n.First)
		for _, t := range n.Rest {
			p.resolveHeredocs(t.Node)
		}
	case *ast.List:
		for _, it := range n.Items {
			p.resolveHeredocs(it.Node)
		}
	case *ast.Subshell:
		p.resolveHeredocs(n.Body)
		p.resolveRedirects(n.Redirects)
	case *ast.BraceGroup:
		p.resolveHeredocs(n.Body)
		p.resolveRedirects(n.Redirects)
	case *ast.If:
		for _, b := range n.Branches {
			p.resolveHeredocs(b.Cond)
			p.resolveHeredocs(b.Body)
		}
		if n.Else != nil {
			p.resolveHeredocs(n.Else)
		}
		p.resolveRedirects(n.Redirects)
	case *ast.Loop:
		p.resolveHeredocs(n.Cond)
		p.resolveHeredocs(n.Body)
		p.resolveRedirects(n.Redirects)
	case *ast.For:
		p.resolveHeredocs(n.Body)
		p.resolveRedirects(n.Redirects)
	case *ast.Case:
		for _, it := range n.Items {
			if it.Body != nil {
				p.resolveHeredocs(it.Body)
			}
		}
		p.resolveRedirects(n.Redirects)
	case *ast.FuncDef:
		p.resolveHeredocs(n.Body)
	}
}

func (p *Parser) resolveRedirects(redirects []ast.Redirect) {
	for i := range redirects {
		r := &redirects[i]
		if r.Op != ast.RedirHeredoc && r.Op != ast.RedirHeredocTab {
			continue
		}
		if body, ok := p.Heredoc(r.HeredocID); ok {
			r.Target = ast.Word{Word: body}
		}
	}
}
