package kir

type BlockID int32

const NoBlockID BlockID = -1

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermBr
	TermCondBr
)

type Terminator struct {
	Kind TermKind
	Cond ValueID // TermCondBr
	Then BlockID // TermBr target, TermCondBr true edge
	Else BlockID
}

// Successors lists the blocks control may reach next.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermBr:
		return []BlockID{t.Then}
	case TermCondBr:
		return []BlockID{t.Then, t.Else}
	}
	return nil
}

type Block struct {
	ID     BlockID
	Name   string
	Instrs []Instr
	Term   Terminator
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
