package parser

import (
	"context"
	"slices"
	"strconv"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/lexer"
	"loopkern/internal/source"
	"loopkern/internal/token"
	"loopkern/internal/trace"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is exhausted.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for one translation unit.
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span
}

// ParseFile drains lx and builds the AST of one C file into arenas.
func ParseFile(ctx context.Context, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
	toks := lx.All()
	p := Parser{
		toks:   slices.DeleteFunc(toks, func(t token.Token) bool { return t.Kind == token.Invalid }),
		arenas: arenas,
		opts:   opts,
	}
	p.file = arenas.NewFile(p.peek().Span)
	p.parseItems()
	span.WithExtra("items", strconv.Itoa(len(arenas.Files.Get(p.file).Items))).End("")
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

// parseItems is the top-level loop: function definitions, prototypes and globals.
func (p *Parser) parseItems() {
	start := p.peek().Span
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			return
		}
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.arenas.PushItem(p.file, item)
	}
	p.arenas.Files.Get(p.file).Span = start.Cover(p.lastSpan)
}

func (p *Parser) parseItem() (ast.ItemID, bool) {
	if !p.peek().Kind.IsTypeSpecifier() {
		p.err(diag.SynUnexpectedTopLevel, "expected declaration, got \""+p.peek().Text+"\"")
		return ast.NoItemID, false
	}
	start := p.peek().Span
	spec, ok := p.parseSpecifiers()
	if !ok {
		return ast.NoItemID, false
	}
	first, ok := p.parseDeclarator(spec)
	if !ok {
		return ast.NoItemID, false
	}
	if p.at(token.LParen) {
		return p.parseFnRest(start, spec, first)
	}
	decls, ok := p.parseInitDeclarators(spec, first)
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewVar(start.Cover(p.lastSpan), decls), true
}

// parseFnRest parses "( params ) { body }" or "( params ) ;".
func (p *Parser) parseFnRest(start source.Span, spec specifiers, decl declarator) (ast.ItemID, bool) {
	params, ok := p.parseParams()
	if !ok {
		return ast.NoItemID, false
	}
	fn := ast.FnItem{
		Name:    decl.name,
		Result:  p.arenas.Types.New(decl.typeExpr(spec)),
		Params:  params,
		Storage: spec.storage,
	}
	if p.at(token.Semicolon) {
		p.advance()
		return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Body = body
	return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
}

func (p *Parser) parseParams() ([]ast.FnParam, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}
	var params []ast.FnParam
	// "()" and "(void)" both mean no parameters
	if p.at(token.RParen) {
		p.advance()
		return nil, true
	}
	if p.at(token.KwVoid) && p.peekAt(1).Kind == token.RParen {
		p.advance()
		p.advance()
		return nil, true
	}
	for {
		start := p.peek().Span
		spec, ok := p.parseSpecifiers()
		if !ok {
			return nil, false
		}
		d, ok := p.parseDeclaratorOpt(spec, true)
		if !ok {
			return nil, false
		}
		params = append(params, ast.FnParam{
			Span: start.Cover(p.lastSpan),
			Name: d.name,
			Type: p.arenas.Types.New(d.typeExpr(spec)),
		})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return nil, false
	}
	return params, true
}

// resyncTop skips to the end of the broken top-level construct.
func (p *Parser) resyncTop() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
