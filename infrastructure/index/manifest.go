package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// ManifestVersion is bumped whenever the cache layout changes; older caches
// are discarded and rebuilt.
const ManifestVersion = 1

// Manifest describes a persisted index snapshot. A snapshot is only reused
// when every field matches the current embedder and corpus.
type Manifest struct {
	Version     int       `json:"version"`
	EmbedderID  string    `json:"embedder_id"`
	Dimension   int       `json:"dimension"`
	CorpusSize  int       `json:"corpus_size"`
	Fingerprint string    `json:"fingerprint"`
	BuiltAt     time.Time `json:"built_at"`
}

// NewManifest creates a Manifest for a freshly built index.
func NewManifest(embedderID string, dimension, corpusSize int, fingerprint string) Manifest {
	return Manifest{
		Version:     ManifestVersion,
		EmbedderID:  embedderID,
		Dimension:   dimension,
		CorpusSize:  corpusSize,
		Fingerprint: fingerprint,
		BuiltAt:     time.Now().UTC(),
	}
}

// Validate reports why the manifest does not match the current deployment,
// or nil when the snapshot is reusable.
func (m Manifest) Validate(embedderID string, dimension, corpusSize int, fingerprint string) error {
	switch {
	case m.Version != ManifestVersion:
		return fmt.Errorf("manifest version %d, expected %d", m.Version, ManifestVersion)
	case m.EmbedderID != embedderID:
		return fmt.Errorf("manifest embedder %q, expected %q", m.EmbedderID, embedderID)
	case m.Dimension != dimension:
		return fmt.Errorf("manifest dimension %d, expected %d", m.Dimension, dimension)
	case m.CorpusSize != corpusSize:
		return fmt.Errorf("manifest corpus size %d, expected %d", m.CorpusSize, corpusSize)
	case m.Fingerprint != fingerprint:
		return fmt.Errorf("manifest fingerprint does not match current corpus")
	}
	return nil
}

// Fingerprint digests ordered corpus ids. Any insertion, removal or reorder
// changes the digest.
func Fingerprint(ids []int64) string {
	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(strconv.FormatInt(id, 10)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
