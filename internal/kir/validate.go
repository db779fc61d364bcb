package kir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of every kernel in m.
func Validate(m *Module) error {
	if m == nil {
		return errors.New("nil module")
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("kernel %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	if len(f.Blocks) == 0 || f.Block(f.Entry) == nil {
		return errors.New("no entry block")
	}
	// control flow first: the remaining checks assume valid edges
	if err := errors.Join(validateTerminators(f), validateBlockTargets(f)); err != nil {
		return err
	}
	return errors.Join(
		validateSignature(f),
		validateOperands(f),
		validateTypes(m, f),
	)
}

func validateTerminators(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		if !f.Blocks[i].Terminated() {
			errs = append(errs, fmt.Errorf("%s: unterminated block", f.Blocks[i].Name))
		}
	}
	return errors.Join(errs...)
}

func validateBlockTargets(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		for _, succ := range bb.Term.Successors() {
			if f.Block(succ) == nil {
				errs = append(errs, fmt.Errorf("%s: branch target #%d does not exist", bb.Name, succ))
			}
		}
		if bb.Term.Kind == TermCondBr {
			if v := f.Value(bb.Term.Cond); v == nil || !v.Type.IsBool() {
				errs = append(errs, fmt.Errorf("%s: condition is not i1", bb.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// validateSignature enforces the host calling shape: global pointers then an
// i32 size; a reduction takes exactly input, output and size.
func validateSignature(f *Func) error {
	n := len(f.Params)
	if n == 0 || f.Params[n-1].Type != I32 {
		return errors.New("last parameter must be the i32 global size")
	}
	var errs []error
	for _, p := range f.Params[:n-1] {
		if !p.Type.Pointer || p.Type.Space != SpaceGlobal {
			errs = append(errs, fmt.Errorf("parameter %s: want a global pointer, got %s", p.Name, p.Type))
		}
	}
	if f.Shape == ShapeReduction && n != 3 {
		errs = append(errs, fmt.Errorf("reduction kernel needs 3 parameters (input, output, size), got %d", n))
	}
	if f.Shape == ShapeReduction && len(f.LocalBuffers) == 0 {
		errs = append(errs, errors.New("reduction kernel has no local buffer"))
	}
	return errors.Join(errs...)
}

type defSite struct {
	block BlockID
	index int
}

// validateOperands checks that every operand exists and that instruction
// results dominate their uses.
func validateOperands(f *Func) error {
	defs := make(map[ValueID]defSite, len(f.Values))
	for bi := range f.Blocks {
		for ii, in := range f.Blocks[bi].Instrs {
			if in.Result != NoValue {
				if prev, dup := defs[in.Result]; dup {
					return fmt.Errorf("value %%%d defined twice (%s and %s)", in.Result,
						f.Blocks[prev.block].Name, f.Blocks[bi].Name)
				}
				defs[in.Result] = defSite{block: BlockID(bi), index: ii} // #nosec G115 -- block count checked by Builder
			}
		}
	}
	dom := dominators(f)
	var errs []error
	check := func(bb *Block, at int, id ValueID) {
		v := f.Value(id)
		if v == nil {
			errs = append(errs, fmt.Errorf("%s: operand %%%d is undefined", bb.Name, id))
			return
		}
		if v.Kind != ValInstr {
			return
		}
		def, ok := defs[id]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: %%%d is never computed", bb.Name, id))
		case def.block == bb.ID && def.index >= at:
			errs = append(errs, fmt.Errorf("%s: %%%d used before its definition", bb.Name, id))
		case def.block != bb.ID && !dom.dominates(def.block, bb.ID):
			errs = append(errs, fmt.Errorf("%s: %%%d from %s does not dominate its use",
				bb.Name, id, f.Blocks[def.block].Name))
		}
	}
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii, in := range bb.Instrs {
			for _, a := range in.Args {
				check(bb, ii, a)
			}
		}
		if bb.Term.Kind == TermCondBr {
			check(bb, len(bb.Instrs), bb.Term.Cond)
		}
	}
	return errors.Join(errs...)
}

type domTree struct {
	idom []BlockID
}

// dominators is the iterative Cooper-Harvey-Kennedy algorithm over reverse
// postorder. Unreachable blocks keep NoBlockID.
func dominators(f *Func) domTree {
	n := len(f.Blocks)
	order := make([]BlockID, 0, n)
	seen := make([]bool, n)
	var dfs func(BlockID)
	dfs = func(b BlockID) {
		seen[b] = true
		for _, s := range f.Blocks[b].Term.Successors() {
			if !seen[s] {
				dfs(s)
			}
		}
		order = append(order, b)
	}
	dfs(f.Entry)
	rpoIndex := make([]int, n)
	for i := range rpoIndex {
		rpoIndex[i] = -1
	}
	for i, b := range order {
		rpoIndex[b] = len(order) - 1 - i
	}
	preds := make([][]BlockID, n)
	for i := range f.Blocks {
		for _, s := range f.Blocks[i].Term.Successors() {
			preds[s] = append(preds[s], BlockID(i)) // #nosec G115 -- bounded by block count
		}
	}

	idom := make([]BlockID, n)
	for i := range idom {
		idom[i] = NoBlockID
	}
	idom[f.Entry] = f.Entry
	intersect := func(a, b BlockID) BlockID {
		for a != b {
			for rpoIndex[a] > rpoIndex[b] {
				a = idom[a]
			}
			for rpoIndex[b] > rpoIndex[a] {
				b = idom[b]
			}
		}
		return a
	}
	for changed := true; changed; {
		changed = false
		for i := len(order) - 1; i >= 0; i-- {
			b := order[i]
			if b == f.Entry {
				continue
			}
			newIdom := NoBlockID
			for _, p := range preds[b] {
				if idom[p] == NoBlockID {
					continue
				}
				if newIdom == NoBlockID {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != idom[b] {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return domTree{idom: idom}
}

func (d domTree) dominates(a, b BlockID) bool {
	for {
		if a == b {
			return true
		}
		next := d.idom[b]
		if next == NoBlockID || next == b {
			return false
		}
		b = next
	}
}
