package lexer_test

import (
	"testing"

	"loopkern/internal/diag"
	"loopkern/internal/lexer"
	"loopkern/internal/source"
	"loopkern/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(32)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexForHeader(t *testing.T) {
	toks, bag := lexAll(t, "for (i = 0; i < n; i++) arr[i] *= 2.0f;")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwFor, token.LParen, token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Ident, token.Lt, token.Ident, token.Semicolon, token.Ident, token.PlusPlus, token.RParen,
		token.Ident, token.LBracket, token.Ident, token.RBracket, token.StarAssign, token.FloatLit,
		token.Semicolon, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[18].Text != "2.0f" {
		t.Errorf("float text = %q", toks[18].Text)
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		in   string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"128", token.IntLit},
		{"0x1F", token.IntLit},
		{"017", token.IntLit},
		{"42u", token.IntLit},
		{"7UL", token.IntLit},
		{"1.5", token.FloatLit},
		{".5f", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.F", token.FloatLit},
		{"3.0L", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, bag := lexAll(t, tt.in)
			if bag.Len() != 0 {
				t.Fatalf("diagnostics: %+v", bag.Items())
			}
			if toks[0].Kind != tt.kind || toks[0].Text != tt.in {
				t.Errorf("got %v %q", toks[0].Kind, toks[0].Text)
			}
		})
	}
}

func TestLexBadNumbers(t *testing.T) {
	for _, in := range []string{"09", "0x", "1e+", "12abc"} {
		t.Run(in, func(t *testing.T) {
			toks, bag := lexAll(t, in)
			if toks[0].Kind != token.Invalid {
				t.Errorf("kind = %v, want Invalid", toks[0].Kind)
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
				t.Errorf("diagnostics = %+v", bag.Items())
			}
		})
	}
}

func TestLexSkipsTrivia(t *testing.T) {
	src := "#include <stdio.h>\n#define N \\\n  128\n// line\nint /* block */ x;\n"
	toks, bag := lexAll(t, src)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	got := kinds(toks)
	want := []token.Kind{token.KwInt, token.Ident, token.Semicolon, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexOperatorsLongestMatch(t *testing.T) {
	toks, _ := lexAll(t, "a<<=b>>c->d--")
	want := []token.Kind{token.Ident, token.ShlAssign, token.Ident, token.Shr, token.Ident,
		token.Arrow, token.Ident, token.MinusMinus, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{"/* open", diag.LexUnterminatedBlockComment},
		{"\"abc\n", diag.LexUnterminatedString},
		{"'a", diag.LexUnterminatedChar},
		{"@", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		_, bag := lexAll(t, tt.in)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Errorf("%q: diagnostics = %+v, want %v", tt.in, bag.Items(), tt.code)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("p.c", []byte("x y"))), lexer.Options{})
	if lx.Peek().Text != "x" || lx.Next().Text != "x" || lx.Next().Text != "y" {
		t.Fatal("peek consumed a token")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("EOF is not sticky")
	}
}
