package driver

// FileReport is the analysis outcome for one input file. It is what the
// disk cache stores and what `--format json` prints.
type FileReport struct {
	Path   string       `json:"path" msgpack:"path"`
	Hash   string       `json:"sha256" msgpack:"hash"`
	Loops  []LoopReport `json:"loops" msgpack:"loops"`
	Cached bool         `json:"cached,omitempty" msgpack:"-"`
}

// LoopReport describes one loop in source order.
type LoopReport struct {
	Line     uint32 `json:"line" msgpack:"line"`
	Column   uint32 `json:"column" msgpack:"column"`
	Kind     string `json:"kind" msgpack:"kind"`
	Function string `json:"function,omitempty" msgpack:"function"`
	Init     string `json:"init,omitempty" msgpack:"init"`
	Cond     string `json:"condition,omitempty" msgpack:"cond"`
	Post     string `json:"increment,omitempty" msgpack:"post"`

	// Analyzed is false for while and do loops and for malformed headers.
	Analyzed bool           `json:"analyzed" msgpack:"analyzed"`
	Skipped  string         `json:"skipped,omitempty" msgpack:"skipped"`
	Verdict  *VerdictReport `json:"verdict,omitempty" msgpack:"verdict"`
	Kernel   *KernelReport  `json:"kernel,omitempty" msgpack:"kernel"`
}

type VerdictReport struct {
	IsVectorizable       bool     `json:"vectorizable" msgpack:"vectorizable"`
	Width                uint     `json:"width,omitempty" msgpack:"width"`
	IsReduction          bool     `json:"reduction" msgpack:"reduction"`
	ReductionVar         string   `json:"reduction_var,omitempty" msgpack:"reduction_var"`
	HasConstantTripCount bool     `json:"constant_trip_count" msgpack:"constant_trip_count"`
	TripCount            uint64   `json:"trip_count,omitempty" msgpack:"trip_count"`
	HasDependencies      bool     `json:"dependencies" msgpack:"dependencies"`
	Pattern              string   `json:"pattern" msgpack:"pattern"`
	Reasons              []string `json:"reasons" msgpack:"reasons"`
}

type KernelReport struct {
	Name                   string   `json:"name" msgpack:"name"`
	Arguments              []string `json:"arguments" msgpack:"arguments"`
	Width                  uint     `json:"width" msgpack:"width"`
	IsReduction            bool     `json:"reduction" msgpack:"reduction"`
	PreferredWorkGroupSize uint32   `json:"preferred_work_group_size" msgpack:"preferred_wg"`
	MaxWorkGroupSize       uint32   `json:"max_work_group_size" msgpack:"max_wg"`
	UsesLocalMemory        bool     `json:"uses_local_memory" msgpack:"local_mem"`
	Generated              bool     `json:"generated" msgpack:"generated"`
	Error                  string   `json:"error,omitempty" msgpack:"error"`
	// Text is the module in the requested emit form; empty for --emit none.
	Text string `json:"text,omitempty" msgpack:"text"`
}

// Vectorizable counts loops with a positive verdict.
func (r *FileReport) Vectorizable() int {
	if r == nil {
		return 0
	}
	n := 0
	for i := range r.Loops {
		if v := r.Loops[i].Verdict; v != nil && v.IsVectorizable {
			n++
		}
	}
	return n
}

// Kernels counts successfully generated kernels.
func (r *FileReport) Kernels() int {
	if r == nil {
		return 0
	}
	n := 0
	for i := range r.Loops {
		if k := r.Loops[i].Kernel; k != nil && k.Generated {
			n++
		}
	}
	return n
}
