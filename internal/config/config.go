// Package config loads the optional loopkern.toml.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"loopkern/internal/kernel"
	"loopkern/internal/vect"
)

var (
	// ErrWorkGroupSize reports a work-group size that is zero or not a power of two.
	ErrWorkGroupSize = errors.New("work group size must be a positive power of two")
	// ErrWorkGroupOrder reports preferred_work_group_size > max_work_group_size.
	ErrWorkGroupOrder = errors.New("preferred_work_group_size exceeds max_work_group_size")
)

// Config is the resolved configuration. Path is empty when defaults are used.
type Config struct {
	Path     string
	Kernel   kernel.Config
	Analysis vect.Options
	CacheDir string
}

type fileConfig struct {
	Kernel struct {
		PreferredWorkGroupSize int64  `toml:"preferred_work_group_size"`
		MaxWorkGroupSize       int64  `toml:"max_work_group_size"`
		TargetTriple           string `toml:"target_triple"`
	} `toml:"kernel"`
	Analysis struct {
		PermissiveTripCount bool `toml:"permissive_trip_count"`
	} `toml:"analysis"`
	Cache struct {
		Dir string `toml:"dir"`
	} `toml:"cache"`
}

// Default returns the configuration used when no loopkern.toml exists.
func Default() Config {
	return Config{Kernel: kernel.DefaultConfig()}
}

// Load reads path. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("kernel", "preferred_work_group_size") {
		n, err := workGroupSize(raw.Kernel.PreferredWorkGroupSize)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [kernel].preferred_work_group_size: %w", path, err)
		}
		cfg.Kernel.PreferredWorkGroupSize = n
	}
	if meta.IsDefined("kernel", "max_work_group_size") {
		n, err := workGroupSize(raw.Kernel.MaxWorkGroupSize)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [kernel].max_work_group_size: %w", path, err)
		}
		cfg.Kernel.MaxWorkGroupSize = n
	}
	if meta.IsDefined("kernel", "target_triple") {
		triple := strings.TrimSpace(raw.Kernel.TargetTriple)
		if triple == "" {
			return Config{}, fmt.Errorf("%s: [kernel].target_triple is empty", path)
		}
		cfg.Kernel.Triple = triple
	}
	if cfg.Kernel.PreferredWorkGroupSize > cfg.Kernel.MaxWorkGroupSize {
		return Config{}, fmt.Errorf("%s: %w (%d > %d)", path, ErrWorkGroupOrder,
			cfg.Kernel.PreferredWorkGroupSize, cfg.Kernel.MaxWorkGroupSize)
	}
	if meta.IsDefined("analysis", "permissive_trip_count") {
		cfg.Analysis.PermissiveTripCount = raw.Analysis.PermissiveTripCount
	}
	if meta.IsDefined("cache", "dir") {
		cfg.CacheDir = strings.TrimSpace(raw.Cache.Dir)
	}
	return cfg, nil
}

// Resolve loads explicit when set, otherwise the nearest loopkern.toml above
// start, otherwise the defaults.
func Resolve(explicit, start string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func workGroupSize(v int64) (uint32, error) {
	n, err := safecast.Conv[uint32](v)
	if err != nil || n == 0 || bits.OnesCount32(n) != 1 {
		return 0, fmt.Errorf("%w, got %d", ErrWorkGroupSize, v)
	}
	return n, nil
}
