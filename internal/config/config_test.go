package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, cfg Config)
		wantErr string
	}{
		{
			name: "empty file keeps defaults",
			body: "",
			check: func(t *testing.T, cfg Config) {
				if cfg.Kernel != Default().Kernel {
					t.Fatalf("kernel = %+v, want defaults", cfg.Kernel)
				}
				if cfg.Analysis.PermissiveTripCount {
					t.Fatal("permissive trip count enabled by default")
				}
			},
		},
		{
			name: "all keys",
			body: `
[kernel]
preferred_work_group_size = 64
max_work_group_size = 512
target_triple = "spir-unknown-unknown"
[analysis]
permissive_trip_count = true
[cache]
dir = ".loopkern-cache"
`,
			check: func(t *testing.T, cfg Config) {
				if cfg.Kernel.PreferredWorkGroupSize != 64 || cfg.Kernel.MaxWorkGroupSize != 512 {
					t.Fatalf("work group sizes = %+v", cfg.Kernel)
				}
				if cfg.Kernel.Triple != "spir-unknown-unknown" {
					t.Fatalf("triple = %q", cfg.Kernel.Triple)
				}
				if !cfg.Analysis.PermissiveTripCount {
					t.Fatal("permissive_trip_count not applied")
				}
				if cfg.CacheDir != ".loopkern-cache" {
					t.Fatalf("cache dir = %q", cfg.CacheDir)
				}
			},
		},
		{
			name:    "not a power of two",
			body:    "[kernel]\npreferred_work_group_size = 100\n",
			wantErr: "power of two",
		},
		{
			name:    "negative",
			body:    "[kernel]\nmax_work_group_size = -4\n",
			wantErr: "power of two",
		},
		{
			name:    "preferred above max",
			body:    "[kernel]\npreferred_work_group_size = 2048\n",
			wantErr: "exceeds",
		},
		{
			name:    "unknown key",
			body:    "[kernel]\nwidth = 8\n",
			wantErr: "unknown keys: kernel.width",
		},
		{
			name:    "empty triple",
			body:    "[kernel]\ntarget_triple = \"  \"\n",
			wantErr: "target_triple is empty",
		},
		{
			name:    "syntax",
			body:    "[kernel\n",
			wantErr: "failed to parse TOML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Path != path {
				t.Fatalf("path = %q, want %q", cfg.Path, path)
			}
			tt.check(t, cfg)
		})
	}
}

func TestWorkGroupSizeSentinel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[kernel]\npreferred_work_group_size = 0\n")
	if _, err := Load(path); !errors.Is(err, ErrWorkGroupSize) {
		t.Fatalf("err = %v, want ErrWorkGroupSize", err)
	}
}

func TestResolveWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[kernel]\npreferred_work_group_size = 128\n")
	nested := filepath.Join(root, "src", "kernels")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "loop.c")
	if err := os.WriteFile(file, []byte("int x;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve("", file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
	if cfg.Kernel.PreferredWorkGroupSize != 128 {
		t.Fatalf("preferred = %d", cfg.Kernel.PreferredWorkGroupSize)
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// A loopkern.toml above the temp dir would make this test environment dependent.
	if cfg.Path == "" && cfg.Kernel != Default().Kernel {
		t.Fatalf("kernel = %+v, want defaults", cfg.Kernel)
	}
}

func TestResolveExplicit(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[analysis]\npermissive_trip_count = true\n")
	cfg, err := Resolve(path, "/nonexistent")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !cfg.Analysis.PermissiveTripCount {
		t.Fatal("explicit config ignored")
	}
}
