package index

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// MetaSchemaVersion guards the persisted metadata format. Bump when the
// Meta layout changes; old files then force a rebuild instead of being
// misread.
const MetaSchemaVersion = 1

// Meta records what the persisted vectors were built from. It is the
// single source of truth for cache validity: the vector file is trusted
// only when KBMtime matches the source document's current mtime.
type Meta struct {
	SchemaVersion int      `json:"schema_version"`
	Chunks        []string `json:"chunks"`
	// KBMtime is the source document's mtime in unix nanoseconds at
	// build time, nil when the document was absent.
	KBMtime *int64 `json:"kb_mtime"`
	// BuiltAt is when the vectors were computed, surviving cache
	// reloads in later processes.
	BuiltAt time.Time `json:"built_at"`
}

// Index holds chunk vectors for exact inner-product search. Position i
// corresponds to chunk i of the build it came from.
type Index struct {
	vectors [][]float32
	dim     int
}

func New(vectors [][]float32) *Index {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return &Index{vectors: vectors, dim: dim}
}

func (ix *Index) Len() int { return len(ix.vectors) }

// Result is one scored index position.
type Result struct {
	ID    int
	Score float32
}

// Search returns the k highest inner products against query in
// descending score order. k is clamped to the index size; an empty
// index or a dimension mismatch yields no results.
func (ix *Index) Search(query []float32, k int) []Result {
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 || len(query) != ix.dim {
		return nil
	}
	results := make([]Result, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		var dot float32
		for j := range query {
			dot += query[j] * v[j]
		}
		results = append(results, Result{ID: i, Score: dot})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results[:k]
}

type vectorFile struct {
	Dim     int
	Vectors [][]float32
}

// WriteFile persists the vectors as gob.
func (ix *Index) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(vectorFile{Dim: ix.dim, Vectors: ix.vectors}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a persisted vector file.
func ReadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var vf vectorFile
	if err := gob.NewDecoder(f).Decode(&vf); err != nil {
		return nil, err
	}
	return &Index{vectors: vf.Vectors, dim: vf.Dim}, nil
}

// WriteMeta persists the build metadata as JSON.
func WriteMeta(path string, m Meta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadMeta loads build metadata, rejecting unknown schema versions.
func ReadMeta(path string) (Meta, error) {
	var m Meta
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, err
	}
	if m.SchemaVersion != MetaSchemaVersion {
		return m, fmt.Errorf("meta schema version %d, want %d", m.SchemaVersion, MetaSchemaVersion)
	}
	return m, nil
}
