package kernel

const (
	DefaultPreferredWorkGroupSize uint32 = 256
	DefaultMaxWorkGroupSize       uint32 = 1024
	DefaultTriple                        = "spir64-unknown-unknown"
)

// Config carries the launch parameters baked into every kernel.
type Config struct {
	PreferredWorkGroupSize uint32
	MaxWorkGroupSize       uint32
	Triple                 string
}

func DefaultConfig() Config {
	return Config{
		PreferredWorkGroupSize: DefaultPreferredWorkGroupSize,
		MaxWorkGroupSize:       DefaultMaxWorkGroupSize,
		Triple:                 DefaultTriple,
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PreferredWorkGroupSize == 0 {
		c.PreferredWorkGroupSize = d.PreferredWorkGroupSize
	}
	if c.MaxWorkGroupSize == 0 {
		c.MaxWorkGroupSize = d.MaxWorkGroupSize
	}
	if c.Triple == "" {
		c.Triple = d.Triple
	}
	return c
}
