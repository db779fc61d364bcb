package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"loopkern/internal/diag"
	"loopkern/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest addresses one cache entry.
type Digest [32]byte

// DiskCache хранит отчёты анализа по хешу содержимого файла и настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached analysis: the report plus the diagnostics that
// produced it, with spans stored file-relative.
type DiskPayload struct {
	Schema      uint16
	Report      *FileReport
	Diagnostics []CachedDiagnostic
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	// HasSpan is false for notes attached to no location.
	HasSpan bool
	Start   uint32
	End     uint32
	Msg     string
}

func newDiskPayload(report *FileReport, bag *diag.Bag) *DiskPayload {
	p := &DiskPayload{Schema: diskCacheSchemaVersion, Report: report}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{
				HasSpan: !n.Span.IsZero(),
				Start:   n.Span.Start,
				End:     n.Span.End,
				Msg:     n.Msg,
			})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// restore replays cached diagnostics against the file's current id.
func (p *DiskPayload) restore(bag *diag.Bag, file source.FileID) {
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			var sp source.Span
			if n.HasSpan {
				sp = source.Span{File: file, Start: n.Start, End: n.End}
			}
			d = d.WithNote(sp, n.Msg)
		}
		bag.Add(d)
	}
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "reports": DropAll не трогает чужие файлы
	return filepath.Join(c.dir, "reports", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (ok bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "reports"))
}

// cacheKey covers everything that can change a report for identical content.
func cacheKey(content [32]byte, opts Options) Digest {
	h := sha256.New()
	var scratch [8]byte
	binary.LittleEndian.PutUint16(scratch[:2], diskCacheSchemaVersion)
	h.Write(scratch[:2])
	h.Write(content[:])
	h.Write([]byte{byte(opts.Emit)})
	cfg := opts.Config.Kernel
	binary.LittleEndian.PutUint32(scratch[:4], cfg.PreferredWorkGroupSize)
	binary.LittleEndian.PutUint32(scratch[4:], cfg.MaxWorkGroupSize)
	h.Write(scratch[:])
	h.Write([]byte(cfg.Triple))
	if opts.Config.Analysis.PermissiveTripCount {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	binary.LittleEndian.PutUint64(scratch[:], uint64(opts.maxDiagnostics()))
	h.Write(scratch[:])
	fmt.Fprintf(h, "%T", opts.Intrinsics)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
