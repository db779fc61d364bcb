package vect

import (
	"loopkern/internal/sema"
	"loopkern/internal/types"
)

// Verdict is built once per loop and not modified afterwards.
type Verdict struct {
	IsVectorizable       bool
	Width                uint
	IsReduction          bool
	HasConstantTripCount bool
	TripCount            uint64 // meaningful only for a literal bound
	Reasons              []string

	Kind            Kind
	HasDependencies bool
	SimplePattern   bool
	ReductionVar    string
	ReductionSym    sema.SymbolID
	Reduction       Accumulator
	Elem            types.TypeID // uniform computation type, NoTypeID if the body has none
	ElementOp       ElementOp    // valid when SimplePattern
}

// Widths chosen by the decision engine.
const (
	WidthNarrow uint = 4
	WidthWide   uint = 8
)
