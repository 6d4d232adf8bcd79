package index

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Cache file names under the cache directory.
const (
	snapshotFile = "embeddings.gob"
	manifestFile = "manifest.json"
)

// ErrCacheMiss indicates no usable snapshot exists: the files are absent,
// stale or corrupted. The caller rebuilds from the corpus.
var ErrCacheMiss = errors.New("index cache miss")

// snapshot is the gob-encoded on-disk form of a FlatIndex.
type snapshot struct {
	IDs     []int64
	Vectors [][]float64
}

// Cache persists index snapshots under a directory. All writes go through a
// temp file, fsync and rename so that a crash can never leave a partial file
// behind; readers see either the old snapshot or the new one.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Load reads a snapshot and validates its manifest against the current
// embedder and corpus. Any failure is reported as ErrCacheMiss with the
// cause attached; a cache can always be rebuilt, so corruption is never
// fatal.
func (c *Cache) Load(embedderID string, dimension, corpusSize int, fingerprint string) (*FlatIndex, error) {
	manifest, err := c.readManifest()
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(embedderID, dimension, corpusSize, fingerprint); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}

	snap, err := c.readSnapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.IDs) != manifest.CorpusSize {
		return nil, fmt.Errorf("%w: snapshot has %d vectors, manifest says %d", ErrCacheMiss, len(snap.IDs), manifest.CorpusSize)
	}

	idx, err := NewFlatIndex(embedderID, dimension, snap.IDs, snap.Vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}
	return idx, nil
}

// Save persists an index snapshot and its manifest. The snapshot is written
// before the manifest so a crash between the two leaves no valid manifest
// pointing at missing data.
func (c *Cache) Save(idx *FlatIndex, fingerprint string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := c.writeSnapshot(snapshot{IDs: idx.IDs(), Vectors: idx.vectors}); err != nil {
		return err
	}

	manifest := NewManifest(idx.EmbedderID(), idx.Dimension(), idx.Size(), fingerprint)
	return c.writeManifest(manifest)
}

// Invalidate removes any persisted snapshot. Missing files are fine.
func (c *Cache) Invalidate() error {
	for _, name := range []string{manifestFile, snapshotFile} {
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func (c *Cache) readManifest() (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, manifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: read manifest: %v", ErrCacheMiss, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest corrupted: %v", ErrCacheMiss, err)
	}
	return m, nil
}

func (c *Cache) writeManifest(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return c.atomicWrite(manifestFile, func(f *os.File) error {
		_, writeErr := f.Write(data)
		return writeErr
	})
}

func (c *Cache) readSnapshot() (snapshot, error) {
	f, err := os.Open(filepath.Join(c.dir, snapshotFile))
	if err != nil {
		return snapshot{}, fmt.Errorf("%w: read snapshot: %v", ErrCacheMiss, err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return snapshot{}, fmt.Errorf("%w: snapshot corrupted: %v", ErrCacheMiss, err)
	}
	return snap, nil
}

func (c *Cache) writeSnapshot(snap snapshot) error {
	return c.atomicWrite(snapshotFile, func(f *os.File) error {
		return gob.NewEncoder(f).Encode(snap)
	})
}

// atomicWrite writes a cache file via temp file, fsync, rename and a final
// directory sync.
func (c *Cache) atomicWrite(name string, write func(*os.File) error) error {
	path := filepath.Join(c.dir, name)
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return c.syncDir()
}

func (c *Cache) syncDir() error {
	dir, err := os.Open(c.dir)
	if err != nil {
		return fmt.Errorf("open cache directory: %w", err)
	}
	defer dir.Close()
	if err := dir.Sync(); err != nil {
		return fmt.Errorf("sync cache directory: %w", err)
	}
	return nil
}
