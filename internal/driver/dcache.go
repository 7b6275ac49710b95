package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"brine/internal/mir"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores decoded and desugared programs keyed by the SHA-256 of
// their source line, so repeated runs skip decoding. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached program.
type DiskPayload struct {
	Schema  uint16 `msgpack:"schema"`
	Source  string `msgpack:"source"`
	Encoded string `msgpack:"encoded"`
	Program []byte `msgpack:"program"` // mir.MarshalBinary of the desugared tree
}

// Key is the cache key of one source line.
type Key [sha256.Size]byte

// KeyOf hashes a source line.
func KeyOf(src string) Key {
	return sha256.Sum256([]byte(src))
}

// OpenDiskCache opens a cache under dir, or under $XDG_CACHE_HOME/<app>
// (falling back to ~/.cache/<app>) when dir is empty.
func OpenDiskCache(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "progs", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Key, payload *DiskPayload) (err error) {
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
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Key, out *DiskPayload) (bool, error) {
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
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "progs"))
}

// lookup fills res from a cached entry for src. A damaged or stale entry,
// including one holding a tree that still needs desugaring, is a miss.
func (c *DiskCache) lookup(src string, res *Result) (*mir.Expr, bool) {
	if c == nil {
		return nil, false
	}
	var payload DiskPayload
	found, err := c.Get(KeyOf(src), &payload)
	if err != nil || !found || payload.Source != src {
		return nil, false
	}
	prog, err := mir.UnmarshalBinary(payload.Program)
	if err != nil || mir.CheckDesugared(prog) != nil {
		return nil, false
	}
	res.Encoded = payload.Encoded
	res.Cached = true
	return prog, true
}

// store writes a best-effort entry; a failed write only costs a later miss.
func (c *DiskCache) store(src, encoded string, prog *mir.Expr) {
	if c == nil {
		return
	}
	data, err := mir.MarshalBinary(prog)
	if err != nil {
		return
	}
	_ = c.Put(KeyOf(src), &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Source:  src,
		Encoded: encoded,
		Program: data,
	})
}

// String describes the cache for logs.
func (c *DiskCache) String() string {
	return fmt.Sprintf("disk cache at %s", c.Dir())
}
