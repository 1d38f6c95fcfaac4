// Package snapshot persists record tables to a document store as bounded
// chunks plus a manifest, and reads them back.
//
// Layout under the admin namespace:
//
//	admin_data/{admin}/dataframes/{name}                  manifest
//	admin_data/{admin}/dataframes/{name}/chunks/chunk_{i} rows [i*C, (i+1)*C)
//	admin_data/{admin}/metadata/sku_decoder               decoder
//	admin_data/{admin}/metadata/last_update               update marker
//
// There is one writer by convention and no locking. A save deletes the old
// chunks and manifest before writing the new set, so a concurrent reader can
// see the table as absent for a moment but never as a mix of two saves.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"sku-dashboard/internal/docstore"
	"sku-dashboard/internal/logger"
)

const (
	DefaultChunkMaxRows = 500
	DefaultLoadWorkers  = 4
)

var (
	ErrInvalidName = errors.New("invalid snapshot name")
	// ErrTornSnapshot means the chunks on disk do not match the manifest,
	// usually because a save is in progress. Callers treat the table as
	// absent and retry after the next update marker.
	ErrTornSnapshot = errors.New("snapshot chunks do not match manifest")
)

type Options struct {
	// Namespace is the admin identity owning the dataset.
	Namespace    string
	ChunkMaxRows int
	LoadWorkers  int
	Logger       *logger.Logger
}

type Adapter struct {
	store   docstore.Store
	root    string
	maxRows int
	workers int
	log     *logger.Logger
}

func New(store docstore.Store, opts Options) (*Adapter, error) {
	ns := strings.TrimSpace(opts.Namespace)
	if ns == "" || strings.Contains(ns, "/") {
		return nil, fmt.Errorf("invalid namespace %q", opts.Namespace)
	}
	a := &Adapter{
		store:   store,
		root:    docstore.Join("admin_data", ns),
		maxRows: opts.ChunkMaxRows,
		workers: opts.LoadWorkers,
		log:     opts.Logger,
	}
	if a.maxRows <= 0 {
		a.maxRows = DefaultChunkMaxRows
	}
	if a.workers <= 0 {
		a.workers = DefaultLoadWorkers
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	a.log = a.log.With("service", "SnapshotAdapter")
	return a, nil
}

// ChunkMaxRows is the row cap of one chunk.
func (a *Adapter) ChunkMaxRows() int { return a.maxRows }

func (a *Adapter) manifestPath(name string) string {
	return docstore.Join(a.root, "dataframes", name)
}

func (a *Adapter) chunksCollection(name string) string {
	return docstore.Join(a.root, "dataframes", name, "chunks")
}

func (a *Adapter) chunkPath(name string, i int) string {
	return docstore.Join(a.chunksCollection(name), fmt.Sprintf("chunk_%d", i))
}

func (a *Adapter) metadataPath(id string) string {
	return docstore.Join(a.root, "metadata", id)
}

func validName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
