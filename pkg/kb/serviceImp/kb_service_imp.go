package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"advisor/pkg/kb"
	"advisor/pkg/kb/embedder"
	"advisor/pkg/kb/index"
	"advisor/pkg/kb/service"
)

// snapshot is one build generation. Chunks, vectors and metadata always
// come from the same build, so a search that captured a snapshot never
// mixes generations.
type snapshot struct {
	chunks  []string
	ix      *index.Index
	meta    index.Meta
	builtAt time.Time
}

// Engine owns the embedder and the active snapshot. Rebuilds assemble a
// fresh snapshot and swap it in whole; in-flight searches finish
// against the snapshot they captured.
type Engine struct {
	emb       embedder.Embedder
	kbPath    string
	indexPath string
	metaPath  string

	buildMu sync.Mutex   // serializes rebuilds and first-use init
	mu      sync.RWMutex // guards snap
	snap    *snapshot
}

func New(emb embedder.Embedder, kbPath, indexPath, metaPath string) *Engine {
	return &Engine{emb: emb, kbPath: kbPath, indexPath: indexPath, metaPath: metaPath}
}

func (e *Engine) Search(ctx context.Context, query string, k int) ([]service.Scored, error) {
	s, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	if len(s.chunks) == 0 || k <= 0 {
		return nil, nil
	}
	if k > len(s.chunks) {
		k = len(s.chunks)
	}
	qv, err := e.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) == 0 {
		return nil, errors.New("embed query: no vector returned")
	}
	hits := s.ix.Search(qv[0], k)
	out := make([]service.Scored, 0, len(hits))
	for _, h := range hits {
		out = append(out, service.Scored{ID: h.ID, Text: s.chunks[h.ID], Score: h.Score})
	}
	return out, nil
}

func (e *Engine) Rebuild(ctx context.Context, force bool) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.rebuild(ctx, force)
}

func (e *Engine) Stats() service.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return service.Stats{}
	}
	return service.Stats{Chunks: len(e.snap.chunks), BuiltAt: e.snap.builtAt}
}

// current returns the active snapshot, building one on first use.
func (e *Engine) current(ctx context.Context) (*snapshot, error) {
	e.mu.RLock()
	s := e.snap
	e.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	e.mu.RLock()
	s = e.snap
	e.mu.RUnlock()
	if s != nil {
		return s, nil
	}
	if err := e.rebuild(ctx, false); err != nil {
		return nil, err
	}
	e.mu.RLock()
	s = e.snap
	e.mu.RUnlock()
	return s, nil
}

// rebuild runs with buildMu held.
func (e *Engine) rebuild(ctx context.Context, force bool) error {
	mtime := statMtime(e.kbPath)
	if !force {
		if s, ok := e.loadPersisted(mtime); ok {
			e.swap(s)
			log.Printf("[kb] loaded existing index, %d chunks", len(s.chunks))
			return nil
		}
	}

	log.Printf("[kb] rebuilding index")
	text := kb.ReadFile(e.kbPath)
	chunks := kb.SplitChunks(text)
	var vectors [][]float32
	if len(chunks) > 0 {
		var err error
		vectors, err = e.emb.Embed(ctx, chunks)
		if err != nil {
			return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
		}
	}
	ix := index.New(vectors)
	meta := index.Meta{SchemaVersion: index.MetaSchemaVersion, Chunks: chunks, KBMtime: mtime, BuiltAt: time.Now()}

	// Persistence failures degrade to an in-memory index.
	if err := ix.WriteFile(e.indexPath); err != nil {
		log.Printf("[kb] write index: %v", err)
	}
	if err := index.WriteMeta(e.metaPath, meta); err != nil {
		log.Printf("[kb] write meta: %v", err)
	}

	e.swap(&snapshot{chunks: chunks, ix: ix, meta: meta, builtAt: meta.BuiltAt})
	log.Printf("[kb] index rebuilt, %d chunks", len(chunks))
	return nil
}

// loadPersisted accepts the on-disk pair only when both files read back
// cleanly, the stored mtime matches the current one, and vector count
// matches chunk count. Anything else forces a rebuild.
func (e *Engine) loadPersisted(mtime *int64) (*snapshot, bool) {
	meta, err := index.ReadMeta(e.metaPath)
	if err != nil {
		return nil, false
	}
	if !mtimeEqual(meta.KBMtime, mtime) {
		return nil, false
	}
	ix, err := index.ReadFile(e.indexPath)
	if err != nil {
		return nil, false
	}
	if ix.Len() != len(meta.Chunks) {
		return nil, false
	}
	// Keep the original build time so health reporting does not claim
	// a fresh build after a cache load.
	return &snapshot{chunks: meta.Chunks, ix: ix, meta: meta, builtAt: meta.BuiltAt}, true
}

func (e *Engine) swap(s *snapshot) {
	e.mu.Lock()
	e.snap = s
	e.mu.Unlock()
}

func statMtime(path string) *int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return nil
	}
	n := fi.ModTime().UnixNano()
	return &n
}

func mtimeEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
