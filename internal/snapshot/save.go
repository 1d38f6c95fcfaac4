package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/docstore"
)

type SaveResult struct {
	Chunks     int
	Rows       int
	Generation string
}

// Save replaces the stored table called name. Old chunks and the manifest
// are removed first; an empty table leaves nothing behind. There is no
// rollback: a failure midway leaves the table absent or torn and the next
// successful save repairs it.
func (a *Adapter) Save(ctx context.Context, name string, t dataset.Table) (SaveResult, error) {
	if err := validName(name); err != nil {
		return SaveResult{}, err
	}
	if err := a.clear(ctx, name); err != nil {
		return SaveResult{}, fmt.Errorf("clear %s: %w", name, err)
	}
	if t.IsEmpty() {
		a.log.Info("table cleared", "table", name)
		return SaveResult{}, nil
	}

	rows, timeCols := encodeRows(t.Rows)
	gen := uuid.NewString()
	n := (len(rows) + a.maxRows - 1) / a.maxRows

	for i := 0; i < n; i++ {
		lo := i * a.maxRows
		hi := min(lo+a.maxRows, len(rows))
		c := chunk{Index: i, Generation: gen, Data: rows[lo:hi]}
		if err := docstore.SetJSON(ctx, a.store, a.chunkPath(name, i), c); err != nil {
			return SaveResult{}, fmt.Errorf("write chunk %d of %s: %w", i, name, err)
		}
	}

	m := manifest{
		Chunked:          true,
		NumChunks:        n,
		NumRecords:       len(rows),
		Generation:       gen,
		Columns:          append([]string(nil), t.Columns...),
		TimestampColumns: timeCols,
	}
	if err := docstore.SetJSON(ctx, a.store, a.manifestPath(name), m); err != nil {
		return SaveResult{}, fmt.Errorf("write manifest of %s: %w", name, err)
	}

	a.log.Info("table saved", "table", name, "rows", len(rows), "chunks", n, "generation", gen)
	return SaveResult{Chunks: n, Rows: len(rows), Generation: gen}, nil
}

// clear deletes every chunk of name and then its manifest.
func (a *Adapter) clear(ctx context.Context, name string) error {
	if _, err := docstore.DeleteCollection(ctx, a.store, a.chunksCollection(name)); err != nil {
		return err
	}
	if err := a.store.Delete(ctx, a.manifestPath(name)); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	return nil
}
