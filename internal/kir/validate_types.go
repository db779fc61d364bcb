package kir

import (
	"errors"
	"fmt"
)

// validateTypes checks operand and result types of every instruction and
// that calls match their declarations.
func validateTypes(m *Module, f *Func) error {
	var errs []error
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii := range bb.Instrs {
			if err := checkInstr(m, f, &bb.Instrs[ii]); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d] %s: %w", bb.Name, ii, bb.Instrs[ii].Op, err))
			}
		}
	}
	return errors.Join(errs...)
}

func checkInstr(m *Module, f *Func, in *Instr) error {
	args := make([]Type, len(in.Args))
	for i, a := range in.Args {
		v := f.Value(a)
		if v == nil {
			return fmt.Errorf("operand %d undefined", i)
		}
		args[i] = v.Type
	}
	var result Type
	if r := f.Value(in.Result); r != nil {
		result = r.Type
	}
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("want %d operands, got %d", n, len(args))
		}
		return nil
	}

	switch {
	case in.Op.IsBinary():
		if err := want(2); err != nil {
			return err
		}
		if args[0] != args[1] || result != args[0] {
			return fmt.Errorf("operand types %s, %s and result %s disagree", args[0], args[1], result)
		}
		isFloat := args[0].Kind == TFloat && !args[0].Pointer
		isInt := args[0].Kind == TInt && !args[0].Pointer
		if in.Op.IsFloatOp() && !isFloat {
			return fmt.Errorf("float op on %s", args[0])
		}
		if !in.Op.IsFloatOp() && !isInt {
			return fmt.Errorf("integer op on %s", args[0])
		}
	case in.Op == OpICmp:
		if err := want(2); err != nil {
			return err
		}
		if args[0] != args[1] || !args[0].IsInt() || args[0].IsVector() {
			return fmt.Errorf("icmp needs two equal scalar integers, got %s and %s", args[0], args[1])
		}
		if !result.IsBool() {
			return errors.New("icmp must produce i1")
		}
	case in.Op == OpLoad:
		if err := want(1); err != nil {
			return err
		}
		if !args[0].Pointer || result != args[0].Elem() {
			return fmt.Errorf("load of %s from %s", result, args[0])
		}
	case in.Op == OpStore:
		if err := want(2); err != nil {
			return err
		}
		if !args[1].Pointer || args[1].Elem() != args[0] {
			return fmt.Errorf("store of %s into %s", args[0], args[1])
		}
	case in.Op == OpPtrCast:
		if err := want(1); err != nil {
			return err
		}
		if !args[0].Pointer || !result.Pointer || args[0].Space != result.Space {
			return fmt.Errorf("cannot cast %s to %s", args[0], result)
		}
	case in.Op == OpGEP:
		if err := want(2); err != nil {
			return err
		}
		if !args[0].Pointer || !args[1].IsInt() || result != args[0] {
			return fmt.Errorf("gep on %s by %s", args[0], args[1])
		}
	case in.Op == OpExtract:
		if err := want(2); err != nil {
			return err
		}
		if err := checkLane(f, args[0], in.Args[1]); err != nil {
			return err
		}
		if result != args[0].Scalar() {
			return fmt.Errorf("extract from %s yields %s", args[0], result)
		}
	case in.Op == OpInsert:
		if err := want(3); err != nil {
			return err
		}
		if err := checkLane(f, args[0], in.Args[2]); err != nil {
			return err
		}
		if args[1] != args[0].Scalar() || result != args[0] {
			return fmt.Errorf("insert of %s into %s", args[1], args[0])
		}
	case in.Op == OpCall:
		d, ok := m.Decl(in.Callee)
		if !ok {
			return fmt.Errorf("call to undeclared @%s", in.Callee)
		}
		if len(d.Params) != len(args) {
			return fmt.Errorf("@%s takes %d arguments, got %d", d.Name, len(d.Params), len(args))
		}
		for i := range args {
			if args[i] != d.Params[i] {
				return fmt.Errorf("@%s argument %d: want %s, got %s", d.Name, i, d.Params[i], args[i])
			}
		}
		if !d.Result.IsVoid() && result != d.Result {
			return fmt.Errorf("@%s returns %s", d.Name, d.Result)
		}
	case in.Op == OpAtomicRMW:
		if err := want(2); err != nil {
			return err
		}
		if !args[0].Pointer || args[0].Elem() != args[1] || args[1].IsVector() {
			return fmt.Errorf("atomic %s of %s on %s", in.Atomic, args[1], args[0])
		}
		if in.Atomic.IsFloat() != args[1].IsFloat() {
			return fmt.Errorf("atomic %s on %s", in.Atomic, args[1])
		}
		if args[0].Space == SpacePrivate {
			return errors.New("atomic on private memory")
		}
	default:
		return fmt.Errorf("unknown op %d", in.Op)
	}
	return nil
}

func checkLane(f *Func, vec Type, index ValueID) error {
	if !vec.IsVector() {
		return fmt.Errorf("%s is not a vector", vec)
	}
	idx := f.Value(index)
	if idx == nil || idx.Kind != ValConst || !idx.Type.IsInt() {
		return errors.New("lane index must be an integer constant")
	}
	if idx.Int < 0 || idx.Int >= int64(vec.Lanes) {
		return fmt.Errorf("lane %d out of range for %s", idx.Int, vec)
	}
	return nil
}
