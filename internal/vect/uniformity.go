package vect

import (
	"loopkern/internal/ast"
	"loopkern/internal/types"
)

// typeUniformity is the result of the computation-type scan.
type typeUniformity struct {
	Uniform bool
	Elem    types.TypeID // the single computation type; NoTypeID if none seen
	Second  types.TypeID // first conflicting type
}

// checkTypeUniformity collects element types of subscripts and result types
// of + - * / (plain and compound) in the body. Index subtrees are not
// computation and are skipped.
func checkTypeUniformity(b *ast.Builder, info Info, body ast.StmtID) typeUniformity {
	res := typeUniformity{Uniform: true}
	in := info.Types()
	observe := func(t types.TypeID) {
		if t == types.NoTypeID || !res.Uniform {
			return
		}
		tt, ok := in.Lookup(t)
		if !ok || !tt.IsArithmetic() {
			return
		}
		switch {
		case res.Elem == types.NoTypeID:
			res.Elem = t
		case res.Elem != t:
			res.Uniform = false
			res.Second = t
		}
	}

	var v Visitor
	v = Visitor{
		Index: func(id ast.ExprID, data *ast.ExprIndexData) bool {
			observe(info.TypeOf(id))
			v.WalkExpr(b, data.Target)
			return false
		},
		Binary: func(id ast.ExprID, data *ast.ExprBinaryData) bool {
			if data.Op.IsArithmetic() {
				observe(info.TypeOf(id))
			}
			return true
		},
		Assign: func(id ast.ExprID, data *ast.ExprAssignData) bool {
			if op, ok := data.Op.Binary(); ok && op.IsArithmetic() {
				observe(in.Common(info.TypeOf(data.Target), info.TypeOf(data.Value)))
			}
			return true
		},
	}
	v.Walk(b, body)
	return res
}
