package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/docstore"
)

// legacyDateLayouts are tried on Tanggal when a stored table predates
// timestamp_columns.
var legacyDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads the table called name. A table that was never saved, or was
// saved empty, loads as an empty table with a nil error.
func (a *Adapter) Load(ctx context.Context, name string) (dataset.Table, error) {
	if err := validName(name); err != nil {
		return dataset.Table{}, err
	}

	var m manifest
	err := docstore.GetJSON(ctx, a.store, a.manifestPath(name), &m)
	if errors.Is(err, docstore.ErrNotFound) {
		return dataset.Table{}, nil
	}
	if err != nil {
		return dataset.Table{}, err
	}

	if !m.Chunked {
		return legacyTable(m), nil
	}
	if m.NumChunks < 0 || m.NumRecords < 0 {
		return dataset.Table{}, fmt.Errorf("%w: %s manifest has %d chunks, %d records",
			ErrTornSnapshot, name, m.NumChunks, m.NumRecords)
	}

	chunks := make([]chunk, m.NumChunks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := 0; i < m.NumChunks; i++ {
		i := i
		g.Go(func() error {
			var c chunk
			err := docstore.GetJSON(gctx, a.store, a.chunkPath(name, i), &c)
			if errors.Is(err, docstore.ErrNotFound) {
				return fmt.Errorf("%w: %s chunk %d missing", ErrTornSnapshot, name, i)
			}
			if err != nil {
				return err
			}
			if c.Index != i || c.Generation != m.Generation {
				return fmt.Errorf("%w: %s chunk %d belongs to another save", ErrTornSnapshot, name, i)
			}
			chunks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrTornSnapshot) {
			a.log.Warn("torn snapshot", "table", name, "error", err)
		}
		return dataset.Table{}, err
	}

	data := make([]map[string]any, 0, m.NumRecords)
	for _, c := range chunks {
		data = append(data, c.Data...)
	}
	if len(data) != m.NumRecords {
		return dataset.Table{}, fmt.Errorf("%w: %s has %d rows, manifest says %d",
			ErrTornSnapshot, name, len(data), m.NumRecords)
	}

	rows := decodeRows(data, m.TimestampColumns)
	cols := m.Columns
	if len(cols) == 0 {
		cols = columnsOf(rows)
	}
	return dataset.Table{Columns: append([]string(nil), cols...), Rows: rows}, nil
}

func legacyTable(m manifest) dataset.Table {
	rows := decodeRows(m.Data, m.TimestampColumns)
	if len(m.TimestampColumns) == 0 {
		for _, r := range rows {
			if s, ok := r[dataset.ColDate].(string); ok {
				r[dataset.ColDate] = parseLegacyDate(s)
			}
		}
	}
	cols := m.Columns
	if len(cols) == 0 {
		cols = columnsOf(rows)
	}
	return dataset.Table{Columns: append([]string(nil), cols...), Rows: rows}
}

func parseLegacyDate(s string) any {
	for _, layout := range legacyDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return nil
}
