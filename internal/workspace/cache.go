package workspace

import (
	"context"
	"sync"
	"time"

	"sku-dashboard/internal/logger"
	"sku-dashboard/internal/snapshot"
)

// Source is the read side of the snapshot adapter.
type Source interface {
	LastUpdated(ctx context.Context) (time.Time, error)
	LoadAll(ctx context.Context) (snapshot.Dataset, error)
}

// Cache keeps the last loaded dataset and reloads it when the update marker
// moves. Reads may be stale by up to one save.
type Cache struct {
	src Source
	log *logger.Logger

	mu     sync.Mutex
	data   snapshot.Dataset
	marker time.Time
	loaded bool
}

func NewCache(src Source, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{src: src, log: log.With("service", "DatasetCache")}
}

// Current returns the cached dataset, reloading it first when the marker
// differs from the one it was loaded under. A partial load is returned
// together with its error and retried on the next call.
func (c *Cache) Current(ctx context.Context) (snapshot.Dataset, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	marker, err := c.src.LastUpdated(ctx)
	if err != nil {
		if c.loaded {
			c.log.Warn("update marker unavailable, serving cached data", "error", err)
			return c.data, c.marker, nil
		}
		return snapshot.NewDataset(), time.Time{}, err
	}
	if c.loaded && marker.Equal(c.marker) {
		return c.data, c.marker, nil
	}

	ds, err := c.src.LoadAll(ctx)
	c.data = ds
	c.marker = marker
	c.loaded = err == nil
	if err != nil {
		c.log.Warn("dataset load incomplete", "error", err)
		return ds, marker, err
	}
	c.log.Info("dataset reloaded", "last_update", marker)
	return ds, marker, nil
}

// Invalidate forces the next Current to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}
