package parser

import (
	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/source"
	"loopkern/internal/token"
)

// specifiers is the parsed declaration-specifier list shared by all
// declarators of one declaration.
type specifiers struct {
	span     source.Span
	base     ast.BaseType
	unsigned bool
	isConst  bool
	storage  ast.Storage
}

type declarator struct {
	span     source.Span
	name     source.StringID
	pointers uint8
	dims     []ast.ExprID
}

func (d declarator) typeExpr(spec specifiers) ast.TypeExpr {
	return ast.TypeExpr{
		Span:     spec.span.Cover(d.span),
		Base:     spec.base,
		Unsigned: spec.unsigned,
		Const:    spec.isConst,
		Pointers: d.pointers,
		Dims:     d.dims,
	}
}

// parseSpecifiers accepts any order of qualifiers, storage classes and
// arithmetic specifiers ("unsigned long int", "static const float").
func (p *Parser) parseSpecifiers() (specifiers, bool) {
	spec := specifiers{span: p.peek().Span}
	var seen, longs, shorts int
	explicitBase := false
	for p.peek().Kind.IsTypeSpecifier() {
		tok := p.advance()
		seen++
		switch tok.Kind {
		case token.KwConst:
			spec.isConst = true
		case token.KwVolatile:
		case token.KwStatic:
			spec.storage = ast.StorageStatic
		case token.KwExtern:
			spec.storage = ast.StorageExtern
		case token.KwRegister:
			spec.storage = ast.StorageRegister
		case token.KwAuto:
			spec.storage = ast.StorageAuto
		case token.KwUnsigned:
			spec.unsigned = true
		case token.KwSigned:
		case token.KwLong:
			longs++
		case token.KwShort:
			shorts++
		case token.KwVoid:
			spec.base, explicitBase = ast.BaseVoid, true
		case token.KwChar:
			spec.base, explicitBase = ast.BaseChar, true
		case token.KwInt:
			if !explicitBase {
				spec.base = ast.BaseInt
			}
		case token.KwFloat:
			spec.base, explicitBase = ast.BaseFloat, true
		case token.KwDouble:
			spec.base, explicitBase = ast.BaseDouble, true
		}
	}
	if seen == 0 {
		p.err(diag.SynExpectType, "expected type specifier, got \""+p.peek().Text+"\"")
		return spec, false
	}
	switch {
	case spec.base == ast.BaseDouble:
		// "long double" is treated as double
	case longs > 0:
		spec.base = ast.BaseLong
	case shorts > 0:
		spec.base = ast.BaseShort
	}
	spec.span = spec.span.Cover(p.lastSpan)
	return spec, true
}

func (p *Parser) parseDeclarator(spec specifiers) (declarator, bool) {
	return p.parseDeclaratorOpt(spec, false)
}

// parseDeclaratorOpt parses "* * name [N] [M]". abstractOK permits a missing
// name, as in prototype parameters.
func (p *Parser) parseDeclaratorOpt(_ specifiers, abstractOK bool) (declarator, bool) {
	d := declarator{span: p.peek().Span}
	for p.at(token.Star) {
		p.advance()
		d.pointers++
		for p.at(token.KwConst) || p.at(token.KwVolatile) {
			p.advance()
		}
	}
	if p.at(token.Ident) {
		d.name = p.intern(p.advance().Text)
	} else if !abstractOK {
		p.err(diag.SynExpectIdentifier, "expected identifier in declarator, got \""+p.peek().Text+"\"")
		return d, false
	}
	for p.at(token.LBracket) {
		p.advance()
		dim := ast.NoExprID
		if !p.at(token.RBracket) {
			var ok bool
			if dim, ok = p.parseAssignExpr(); !ok {
				return d, false
			}
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return d, false
		}
		d.dims = append(d.dims, dim)
	}
	d.span = d.span.Cover(p.lastSpan)
	return d, true
}

// parseInitDeclarators continues "first [= init] {, decl [= init]}".
func (p *Parser) parseInitDeclarators(spec specifiers, first declarator) ([]ast.VarDecl, bool) {
	var decls []ast.VarDecl
	d := first
	for {
		vd := ast.VarDecl{
			Span:    d.span,
			Name:    d.name,
			Type:    p.arenas.Types.New(d.typeExpr(spec)),
			Storage: spec.storage,
		}
		if p.at(token.Assign) {
			p.advance()
			if p.at(token.LBrace) {
				// aggregate initializers carry no information the analysis needs
				if !p.skipBraced() {
					return nil, false
				}
			} else {
				init, ok := p.parseAssignExpr()
				if !ok {
					return nil, false
				}
				vd.Init = init
			}
			vd.Span = vd.Span.Cover(p.lastSpan)
		}
		decls = append(decls, vd)
		if !p.at(token.Comma) {
			return decls, true
		}
		p.advance()
		var ok bool
		if d, ok = p.parseDeclarator(spec); !ok {
			return nil, false
		}
	}
}

// parseDeclStmt parses a local declaration including the trailing ';'.
func (p *Parser) parseDeclStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	spec, ok := p.parseSpecifiers()
	if !ok {
		return ast.NoStmtID, false
	}
	first, ok := p.parseDeclarator(spec)
	if !ok {
		return ast.NoStmtID, false
	}
	decls, ok := p.parseInitDeclarators(spec, first)
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewDecl(start.Cover(p.lastSpan), decls), true
}

// parseTypeName parses the abstract type of a cast or sizeof: "float", "int *".
func (p *Parser) parseTypeName() (ast.TypeID, bool) {
	spec, ok := p.parseSpecifiers()
	if !ok {
		return ast.NoTypeID, false
	}
	d, ok := p.parseDeclaratorOpt(spec, true)
	if !ok {
		return ast.NoTypeID, false
	}
	if d.name != source.NoStringID {
		p.report(diag.SynUnexpectedToken, diag.SevError, d.span, "unexpected name in type")
		return ast.NoTypeID, false
	}
	return p.arenas.Types.New(d.typeExpr(spec)), true
}

func (p *Parser) skipBraced() bool {
	open := p.advance()
	depth := 1
	for depth > 0 {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.EOF:
			p.report(diag.SynUnclosedBrace, diag.SevError, open.Span, "unclosed '{' in initializer")
			return false
		}
	}
	return true
}
