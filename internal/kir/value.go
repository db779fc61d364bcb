package kir

// ValueID indexes Func.Values.
type ValueID int32

const NoValue ValueID = -1

type ValueKind uint8

const (
	ValParam ValueKind = iota
	ValInstr
	ValConst  // scalar constant, or a splat when Type is a vector
	ValBuffer // work-group local buffer, typed as a pointer to its element
)

// Value is anything an instruction can take as an operand.
type Value struct {
	ID     ValueID
	Kind   ValueKind
	Type   Type
	Name   string
	Int    int64
	Float  float64
	Buffer int // index into Func.LocalBuffers for ValBuffer
}

// LocalBuffer is a per-work-group array in local memory.
type LocalBuffer struct {
	Name  string
	Elem  Type
	Count uint32
}
