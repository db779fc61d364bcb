package types

import "testing"

func TestInternIsStructural(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p1 := in.Intern(MakePointer(b.Float))
	p2 := in.Intern(MakePointer(b.Float))
	if p1 != p2 {
		t.Fatal("identical descriptors got different ids")
	}
	if in.Intern(MakeInt(Width32)) != b.Int {
		t.Error("int builtin not reused")
	}
	if in.Intern(Type{}) != NoTypeID {
		t.Error("invalid descriptor interned")
	}
}

func TestCommon(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := []struct {
		name string
		a, b TypeID
		want TypeID
	}{
		{"float+int", b.Float, b.Int, b.Float},
		{"int+double", b.Int, b.Double, b.Double},
		{"float+double", b.Float, b.Double, b.Double},
		{"char+char", b.Char, b.Char, b.Int},
		{"short+long", b.Short, b.Long, b.Long},
		{"int+uint", b.Int, b.UInt, b.UInt},
		{"ptr+int", in.Intern(MakePointer(b.Int)), b.Int, NoTypeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.Common(tt.a, tt.b); got != tt.want {
				t.Errorf("got %s, want %s", in.Label(got), in.Label(tt.want))
			}
		})
	}
}

func TestDecayAndElem(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	arr := in.Intern(MakeArray(b.Float, 128))
	ptr := in.Decay(arr)
	if in.MustLookup(ptr).Kind != KindPointer {
		t.Fatalf("decay produced %s", in.Label(ptr))
	}
	if elem, ok := in.Elem(arr); !ok || elem != b.Float {
		t.Errorf("Elem(arr) = %s", in.Label(elem))
	}
	if _, ok := in.Elem(b.Int); ok {
		t.Error("int has no element type")
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := map[TypeID]string{
		b.Float:  "float",
		b.Double: "double",
		b.UInt:   "unsigned int",
		in.Intern(MakePointer(b.Float)):            "float *",
		in.Intern(MakeArray(b.Int, 16)):            "int[16]",
		in.Intern(MakeArray(b.Char, ArrayUnsized)): "char[]",
	}
	for id, want := range tests {
		if got := in.Label(id); got != want {
			t.Errorf("Label = %q, want %q", got, want)
		}
	}
}
