package service

import (
	"context"
	"time"
)

// Scored is one retrieved chunk with its similarity to the query. ID is
// the chunk's position within the current index build.
type Scored struct {
	ID    int
	Text  string
	Score float32
}

// Stats describes the currently active index snapshot.
type Stats struct {
	Chunks  int
	BuiltAt time.Time
}

type KBService interface {
	// Search embeds the query and returns the top-k chunks in
	// descending score order. k is clamped to the chunk count; a zero
	// chunk count yields an empty result, not an error.
	Search(ctx context.Context, query string, k int) ([]Scored, error)
	// Rebuild reloads or rebuilds the index. Without force the
	// persisted index is reused when the source document's mtime
	// matches the stored metadata.
	Rebuild(ctx context.Context, force bool) error
	Stats() Stats
}
