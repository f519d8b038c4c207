package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	entryExt    = ".json"
	entryTemp   = ".entry-"
	shardPrefix = 2
)

// FileCache keeps rendered artifacts between CLI runs, one JSON entry per
// key under dir. Entries are sharded by the first hex byte of the key hash
// and replaced atomically, so a concurrent render never reads half an entry.
//
// A FileCache with no directory is disabled: every Get misses and Set and
// Delete do nothing. Wrapped with [Instrumented] it still reports each
// render as a miss, which is how --no-cache runs.
type FileCache struct {
	dir string
}

// NewFileCache opens the cache in dir, creating the directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Disabled returns a FileCache that stores nothing.
func Disabled() *FileCache {
	return &FileCache{}
}

// entry is the on-disk form of one artifact. Key is kept so a hash
// collision reads as a miss rather than the wrong artifact.
type entry struct {
	Key     string    `json:"key"`
	Stored  time.Time `json:"stored"`
	Expires time.Time `json:"expires"`
	Data    []byte    `json:"data"`
}

func (e *entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

// Get returns the artifact stored under key. Unreadable, expired, and
// mismatched entries are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.dir == "" {
		return nil, false, nil
	}
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key. A ttl of zero keeps the entry until the cache
// is cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.dir == "" {
		return nil
	}
	e := entry{Key: key, Stored: time.Now(), Data: data}
	if ttl > 0 {
		e.Expires = e.Stored.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return writeAtomic(c.path(key), raw)
}

// Delete removes the entry for key, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if c.dir == "" {
		return nil
	}
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry and the emptied shard directories, and returns
// how many entries were removed. Stale temporary files are removed without
// being counted.
func (c *FileCache) Clear() (int, error) {
	if c.dir == "" {
		return 0, nil
	}
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n := 0
	for _, s := range shards {
		if !s.IsDir() {
			continue
		}
		shard := filepath.Join(c.dir, s.Name())
		files, err := os.ReadDir(shard)
		if err != nil {
			return n, err
		}
		for _, f := range files {
			name := f.Name()
			switch {
			case strings.HasPrefix(name, entryTemp):
				_ = os.Remove(filepath.Join(shard, name))
			case filepath.Ext(name) == entryExt:
				if err := os.Remove(filepath.Join(shard, name)); err != nil {
					return n, err
				}
				n++
			}
		}
		// Fails while the shard holds anything that is not ours.
		_ = os.Remove(shard)
	}
	return n, nil
}

// Dir returns the cache directory, or "" when the cache is disabled.
func (c *FileCache) Dir() string {
	return c.dir
}

// Close does nothing.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:shardPrefix], h[shardPrefix:]+entryExt)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, entryTemp+"*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Cache = (*FileCache)(nil)
