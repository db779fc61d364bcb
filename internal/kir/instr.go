package kir

type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpICmp
	OpAnd
	OpLoad
	OpStore
	OpPtrCast
	OpGEP
	OpExtract
	OpInsert
	OpCall
	OpAtomicRMW
)

var opNames = [...]string{
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpSDiv:      "sdiv",
	OpUDiv:      "udiv",
	OpFAdd:      "fadd",
	OpFSub:      "fsub",
	OpFMul:      "fmul",
	OpFDiv:      "fdiv",
	OpICmp:      "icmp",
	OpAnd:       "and",
	OpLoad:      "load",
	OpStore:     "store",
	OpPtrCast:   "ptrcast",
	OpGEP:       "gep",
	OpExtract:   "extractelement",
	OpInsert:    "insertelement",
	OpCall:      "call",
	OpAtomicRMW: "atomicrmw",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op?"
}

// IsBinary covers the arithmetic and bitwise two-operand ops.
func (op Op) IsBinary() bool {
	return op <= OpFDiv || op == OpAnd
}

func (op Op) IsFloatOp() bool {
	return op >= OpFAdd && op <= OpFDiv
}

type Pred uint8

const (
	PredEQ Pred = iota
	PredNE
	PredSLT
	PredSLE
	PredSGT
	PredSGE
	PredULT
)

var predNames = [...]string{"eq", "ne", "slt", "sle", "sgt", "sge", "ult"}

func (p Pred) String() string {
	if int(p) < len(predNames) {
		return predNames[p]
	}
	return "pred?"
}

type AtomicOp uint8

const (
	AtomicAdd AtomicOp = iota
	AtomicSub
	AtomicFAdd
	AtomicFSub
)

func (a AtomicOp) String() string {
	switch a {
	case AtomicAdd:
		return "add"
	case AtomicSub:
		return "sub"
	case AtomicFAdd:
		return "fadd"
	case AtomicFSub:
		return "fsub"
	}
	return "atomic?"
}

func (a AtomicOp) IsFloat() bool { return a == AtomicFAdd || a == AtomicFSub }

type Ordering uint8

const (
	OrderMonotonic Ordering = iota
	OrderSeqCst
)

func (o Ordering) String() string {
	if o == OrderSeqCst {
		return "seq_cst"
	}
	return "monotonic"
}

// Instr is one operation. Result is NoValue for store, atomics whose result
// is unused and calls returning void.
//
// Operand layout per op:
//
//	binary, icmp, and   Args = [lhs, rhs]
//	load                Args = [ptr]
//	store               Args = [value, ptr]
//	ptrcast             Args = [ptr]        (result type is the target)
//	gep                 Args = [ptr, index] (element offset)
//	extractelement      Args = [vector, index]
//	insertelement       Args = [vector, scalar, index]
//	call                Args = arguments, Callee names a Decl
//	atomicrmw           Args = [ptr, value]
type Instr struct {
	Op     Op
	Result ValueID
	Args   []ValueID
	Pred   Pred
	Callee string
	Atomic AtomicOp
	Order  Ordering
}
