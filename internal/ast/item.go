package ast

import (
	"loopkern/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemVar
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type FnParam struct {
	Span source.Span
	Name source.StringID // NoStringID for unnamed prototype params
	Type TypeID
}

type FnItem struct {
	Name    source.StringID
	Result  TypeID
	Params  []FnParam
	Body    StmtID // NoStmtID for a prototype
	Storage Storage
}

type VarItem struct {
	Decls []VarDecl
}

type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
	Vars  *Arena[VarItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
		Vars:  NewArena[VarItem](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(span source.Span, fn FnItem) ItemID {
	fn.Params = append([]FnParam(nil), fn.Params...)
	p := i.Fns.Allocate(fn)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFn, Span: span, Payload: PayloadID(p)}))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	it := i.Get(id)
	if it == nil || it.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(it.Payload)), true
}

func (i *Items) NewVar(span source.Span, decls []VarDecl) ItemID {
	p := i.Vars.Allocate(VarItem{Decls: append([]VarDecl(nil), decls...)})
	return ItemID(i.Arena.Allocate(Item{Kind: ItemVar, Span: span, Payload: PayloadID(p)}))
}

func (i *Items) Var(id ItemID) (*VarItem, bool) {
	it := i.Get(id)
	if it == nil || it.Kind != ItemVar {
		return nil, false
	}
	return i.Vars.Get(uint32(it.Payload)), true
}
