package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"loopkern/internal/diag"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[0] = 7

	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	in := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Report: &FileReport{Path: "a.c", Hash: "ff", Loops: []LoopReport{{Line: 3, Kind: "for", Analyzed: true}}},
		Diagnostics: []CachedDiagnostic{{
			Severity: uint8(diag.SevInfo),
			Code:     uint16(diag.VecLoopVectorizable),
			Message:  "ok",
			Start:    1,
			End:      4,
			Notes:    []CachedNote{{Msg: "reason"}},
		}},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(out.Report.Loops, in.Report.Loops) || !reflect.DeepEqual(out.Diagnostics, in.Diagnostics) {
		t.Errorf("round trip = %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Error("entry survived DropAll")
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(Digest{}, &DiskPayload{}); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestOpenDiskCacheXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("loopkern")
	if err != nil {
		t.Fatal(err)
	}
	if cache.Dir() != filepath.Join(base, "loopkern") {
		t.Errorf("Dir() = %s", cache.Dir())
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(EmitLLVM)
	opts.Cache = cache

	first := AnalyzeSource(context.Background(), "sample.c", []byte(sample), opts)
	if first.Report.Cached {
		t.Fatal("cold run reported cached")
	}
	second := AnalyzeSource(context.Background(), "sample.c", []byte(sample), opts)
	if !second.Report.Cached {
		t.Fatal("warm run missed the cache")
	}
	if !reflect.DeepEqual(second.Report.Loops, first.Report.Loops) {
		t.Error("cached loops differ")
	}
	if second.Bag.Len() != first.Bag.Len() {
		t.Errorf("cached diagnostics = %d, want %d", second.Bag.Len(), first.Bag.Len())
	}
	for i, d := range second.Bag.Items() {
		want := first.Bag.Items()[i]
		if d.Code != want.Code || d.Primary != want.Primary || len(d.Notes) != len(want.Notes) {
			t.Errorf("diagnostic %d = %+v, want %+v", i, d, want)
		}
	}

	// A different emit mode must not reuse the entry.
	opts.Emit = EmitKIR
	if AnalyzeSource(context.Background(), "sample.c", []byte(sample), opts).Report.Cached {
		t.Error("emit mode change hit the cache")
	}
}

func TestAnalyzeDoesNotCacheErrors(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(EmitNone)
	opts.Cache = cache
	AnalyzeSource(context.Background(), "bad.c", []byte("void f(void) { x = 1; }"), opts)
	if _, err := os.Stat(filepath.Join(dir, "reports")); !os.IsNotExist(err) {
		t.Errorf("broken file was cached: %v", err)
	}
}
