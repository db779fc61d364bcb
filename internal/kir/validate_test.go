package kir

import (
	"strings"
	"testing"
)

var getGlobalID = Decl{Name: "get_global_id", Result: I32, Params: []Type{I32}}

// scaleKernel builds dst[gid] = src[gid] * 2 with a bounds check.
func scaleKernel() *Module {
	m := &Module{Name: "k", Triple: "spir64-unknown-unknown"}
	m.Declare(getGlobalID)
	b := NewFunc(m, "k", ShapeElementwise)
	src := b.Param("src", Ptr(F32, SpaceGlobal))
	size := b.Param("n", I32)
	entry := b.NewBlock("entry")
	body := b.NewBlock("body")
	exit := b.NewBlock("exit")

	b.SetBlock(entry)
	gid := b.Call("get_global_id", b.ConstInt(I32, 0))
	b.CondBr(b.ICmp(PredSLT, gid, size), body, exit)

	b.SetBlock(body)
	p := b.GEP(src, gid)
	x := b.Load(p)
	b.Store(b.Binary(OpFMul, x, b.ConstFloat(F32, 2)), p)
	b.Br(exit)

	b.SetBlock(exit)
	b.Ret()
	return m
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	if err := Validate(scaleKernel()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Module)
		want   string
	}{
		{
			name:   "unterminated",
			mutate: func(m *Module) { m.Funcs[0].Blocks[2].Term = Terminator{} },
			want:   "unterminated block",
		},
		{
			name:   "missing target",
			mutate: func(m *Module) { m.Funcs[0].Blocks[1].Term.Then = 9 },
			want:   "does not exist",
		},
		{
			name: "use outside dominance",
			mutate: func(m *Module) {
				f := m.Funcs[0]
				// the loaded value is defined in body but used in exit
				loaded := f.Blocks[1].Instrs[1].Result
				f.Blocks[2].Instrs = append(f.Blocks[2].Instrs, Instr{Op: OpFAdd, Result: NoValue, Args: []ValueID{loaded, loaded}})
			},
			want: "does not dominate",
		},
		{
			name: "type mismatch",
			mutate: func(m *Module) {
				f := m.Funcs[0]
				mul := &f.Blocks[1].Instrs[2]
				mul.Op = OpMul
			},
			want: "integer op on float",
		},
		{
			name:   "undeclared call",
			mutate: func(m *Module) { m.Decls = nil },
			want:   "undeclared @get_global_id",
		},
		{
			name:   "reduction arity",
			mutate: func(m *Module) { m.Funcs[0].Shape = ShapeReduction },
			want:   "needs 3 parameters",
		},
		{
			name: "size last",
			mutate: func(m *Module) {
				f := m.Funcs[0]
				f.Params[0], f.Params[1] = f.Params[1], f.Params[0]
			},
			want: "last parameter must be the i32 global size",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scaleKernel()
			tt.mutate(m)
			err := Validate(m)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	out := String(scaleKernel())
	for _, want := range []string{
		`target "spir64-unknown-unknown"`,
		"declare i32 @get_global_id(i32)",
		"kernel elementwise @k(%src: float addrspace(1)*, %n: i32)",
		"%3 = call i32 @get_global_id(i32 0)",
		"condbr i1 %4, body, exit",
		"fmul float %6, float 2.0",
		"ret",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
	if out != String(scaleKernel()) {
		t.Error("dump is not deterministic")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{F32, "float"},
		{Vec(F64, 4), "<4 x double>"},
		{Ptr(Vec(F32, 8), SpaceGlobal), "<8 x float> addrspace(1)*"},
		{Ptr(I32, SpacePrivate), "i32*"},
		{I1, "i1"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%#v: %q, want %q", tt.typ, got, tt.want)
		}
	}
}
