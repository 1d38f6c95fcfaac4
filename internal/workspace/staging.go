// Package workspace holds the application state shared by HTTP handlers:
// the admin's staged uploads and the readers' snapshot cache.
package workspace

import (
	"sync"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/ingest"
	"sku-dashboard/internal/sku"
	"sku-dashboard/internal/snapshot"
)

// Staging is the admin's upload area. Uploads land here and are persisted
// only when the admin saves.
type Staging struct {
	mu      sync.RWMutex
	decoder sku.Decoder
	tables  map[dataset.Kind]dataset.Table
}

func NewStaging() *Staging {
	return &Staging{
		decoder: sku.NewDecoder(),
		tables:  make(map[dataset.Kind]dataset.Table),
	}
}

// Seed replaces the staged state with a loaded dataset, typically the last
// saved one.
func (s *Staging) Seed(ds snapshot.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoder = ds.Decoder
	if s.decoder == nil {
		s.decoder = sku.NewDecoder()
	}
	s.tables = make(map[dataset.Kind]dataset.Table, len(ds.Tables))
	for k, t := range ds.Tables {
		s.tables[k] = t.Clone()
	}
}

// SetMaster installs a new decoder and re-enriches every staged table with
// it.
func (s *Staging) SetMaster(d sku.Decoder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoder = d
	for k, t := range s.tables {
		if !t.IsEmpty() {
			s.tables[k] = sku.Enrich(t, d)
		}
	}
}

func (s *Staging) Decoder() sku.Decoder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decoder
}

// Ingest runs the upload pipeline for kind with the staged decoder and
// stages the result, replacing any earlier upload of that kind.
func (s *Staging) Ingest(kind dataset.Kind, raw dataset.Table) (ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := ingest.Upload(kind, raw, s.decoder)
	if err != nil {
		return ingest.Result{}, err
	}
	s.tables[kind] = res.Table
	return res, nil
}

// Dataset returns a copy of the staged state.
func (s *Staging) Dataset() snapshot.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds := snapshot.Dataset{
		Decoder: s.decoder,
		Tables:  make(map[dataset.Kind]dataset.Table, len(s.tables)),
	}
	for k, t := range s.tables {
		ds.Tables[k] = t.Clone()
	}
	return ds
}
