package kir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes the textual form of m.
func Dump(w io.Writer, m *Module) error {
	_, err := io.WriteString(w, String(m))
	return err
}

// String renders m; equal modules render identically.
func String(m *Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\ntarget %q\n", m.Name, m.Triple)
	for _, d := range m.Decls {
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = p.String()
		}
		fmt.Fprintf(&sb, "declare %s @%s(%s)\n", d.Result, d.Name, strings.Join(params, ", "))
	}
	for _, f := range m.Funcs {
		sb.WriteByte('\n')
		writeFunc(&sb, f)
	}
	return sb.String()
}

func writeFunc(sb *strings.Builder, f *Func) {
	for _, lb := range f.LocalBuffers {
		fmt.Fprintf(sb, "local @%s: [%d x %s]\n", lb.Name, lb.Count, lb.Elem)
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = "%" + p.Name + ": " + p.Type.String()
	}
	fmt.Fprintf(sb, "kernel %s @%s(%s) width=%d workgroup=%d {\n",
		f.Shape, f.Name, strings.Join(params, ", "), f.Width, f.WorkGroupSize)
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(sb, "%s:\n", bb.Name)
		for j := range bb.Instrs {
			sb.WriteString("  ")
			writeInstr(sb, f, &bb.Instrs[j])
			sb.WriteByte('\n')
		}
		sb.WriteString("  ")
		writeTerm(sb, f, &bb.Term)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func writeInstr(sb *strings.Builder, f *Func, in *Instr) {
	if in.Result != NoValue {
		fmt.Fprintf(sb, "%%%d = ", in.Result)
	}
	sb.WriteString(in.Op.String())
	switch in.Op {
	case OpICmp:
		sb.WriteString(" " + in.Pred.String())
	case OpCall:
		ret := "void"
		if r := f.Value(in.Result); r != nil {
			ret = r.Type.String()
		}
		fmt.Fprintf(sb, " %s @%s(", ret, in.Callee)
		for i, a := range in.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(operand(f, a))
		}
		sb.WriteByte(')')
		return
	case OpAtomicRMW:
		sb.WriteString(" " + in.Atomic.String())
	case OpPtrCast:
		fmt.Fprintf(sb, " %s to %s", operand(f, in.Args[0]), f.Values[in.Result].Type)
		return
	}
	for i, a := range in.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(" " + operand(f, a))
	}
	if in.Op == OpAtomicRMW {
		sb.WriteString(" " + in.Order.String())
	}
}

func writeTerm(sb *strings.Builder, f *Func, t *Terminator) {
	name := func(id BlockID) string {
		if b := f.Block(id); b != nil {
			return b.Name
		}
		return "#" + strconv.Itoa(int(id))
	}
	switch t.Kind {
	case TermReturn:
		sb.WriteString("ret")
	case TermBr:
		sb.WriteString("br " + name(t.Then))
	case TermCondBr:
		fmt.Fprintf(sb, "condbr %s, %s, %s", operand(f, t.Cond), name(t.Then), name(t.Else))
	default:
		sb.WriteString("<unterminated>")
	}
}

// operand renders "type value".
func operand(f *Func, id ValueID) string {
	v := f.Value(id)
	if v == nil {
		return "<undef %" + strconv.Itoa(int(id)) + ">"
	}
	return v.Type.String() + " " + valueName(v)
}

func valueName(v *Value) string {
	switch v.Kind {
	case ValParam:
		return "%" + v.Name
	case ValBuffer:
		return "@" + v.Name
	case ValConst:
		var s string
		if v.Type.Kind == TFloat {
			s = strconv.FormatFloat(v.Float, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eEn") {
				s += ".0"
			}
		} else {
			s = strconv.FormatInt(v.Int, 10)
		}
		if v.Type.IsVector() {
			return "splat(" + s + ")"
		}
		return s
	default:
		return "%" + strconv.Itoa(int(v.ID))
	}
}
