package kir

// Shape is the calling shape a kernel promises to its host.
type Shape uint8

const (
	ShapeElementwise Shape = iota
	ShapeReduction
)

func (s Shape) String() string {
	if s == ShapeReduction {
		return "reduction"
	}
	return "elementwise"
}

// Decl is an external function supplied by the execution environment.
type Decl struct {
	Name   string
	Result Type
	Params []Type
}

type Param struct {
	Name  string
	Type  Type
	Value ValueID
}

type Func struct {
	Name          string
	Shape         Shape
	Width         uint
	WorkGroupSize uint32
	Params        []Param
	Values        []Value
	Blocks        []Block
	Entry         BlockID
	LocalBuffers  []LocalBuffer
}

// Block returns the block with the given id or nil.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Value returns the value with the given id or nil.
func (f *Func) Value(id ValueID) *Value {
	if id < 0 || int(id) >= len(f.Values) {
		return nil
	}
	return &f.Values[id]
}

// Module is the emitted artefact for one loop.
type Module struct {
	Name   string
	Triple string
	Decls  []Decl
	Funcs  []*Func
}

// Decl looks up an external declaration by name.
func (m *Module) Decl(name string) (*Decl, bool) {
	for i := range m.Decls {
		if m.Decls[i].Name == name {
			return &m.Decls[i], true
		}
	}
	return nil, false
}

// Declare adds d unless a declaration with that name already exists.
func (m *Module) Declare(d Decl) {
	if _, ok := m.Decl(d.Name); !ok {
		m.Decls = append(m.Decls, d)
	}
}
