package sema

import (
	"loopkern/internal/source"
	"loopkern/internal/types"
)

// SymbolID identifies a declaration; 0 means unresolved.
type SymbolID uint32

const NoSymbolID SymbolID = 0

type SymbolKind uint8

const (
	SymbolVar SymbolKind = iota
	SymbolParam
	SymbolFn
)

// Storage is where a variable lives relative to a function body.
type Storage uint8

const (
	// StorageGlobal covers file-scope objects and static/extern locals.
	StorageGlobal Storage = iota
	StorageParam
	StorageLocal
)

func (s Storage) String() string {
	switch s {
	case StorageGlobal:
		return "global"
	case StorageParam:
		return "param"
	case StorageLocal:
		return "local"
	}
	return "unknown"
}

type Symbol struct {
	Name    source.StringID
	Kind    SymbolKind
	Storage Storage
	Type    types.TypeID
	Span    source.Span
}

// HasGlobalStorage reports storage that outlives any single invocation.
func (s *Symbol) HasGlobalStorage() bool {
	return s.Storage == StorageGlobal && s.Kind != SymbolFn
}
