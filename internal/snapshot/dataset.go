package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sku-dashboard/internal/dataset"
	"sku-dashboard/internal/sku"
)

// Dataset is everything the dashboard persists for one admin.
type Dataset struct {
	Decoder sku.Decoder
	Tables  map[dataset.Kind]dataset.Table
}

func NewDataset() Dataset {
	return Dataset{Decoder: sku.NewDecoder(), Tables: make(map[dataset.Kind]dataset.Table)}
}

// Table returns the table for kind, empty when absent.
func (d Dataset) Table(kind dataset.Kind) dataset.Table {
	if d.Tables == nil {
		return dataset.Table{}
	}
	return d.Tables[kind]
}

type TableReport struct {
	Kind   dataset.Kind
	Result SaveResult
	Err    error
}

type SaveReport struct {
	Tables    []TableReport
	DecoderOK bool
	UpdatedAt time.Time
}

// SaveAll saves every kind independently, then the decoder, then touches
// the update marker. A failing table does not stop the others; all errors
// are joined into the returned error.
func (a *Adapter) SaveAll(ctx context.Context, ds Dataset) (SaveReport, error) {
	var (
		report SaveReport
		errs   []error
	)
	for _, kind := range dataset.Kinds() {
		res, err := a.Save(ctx, string(kind), ds.Table(kind))
		if err != nil {
			a.log.Error("save table failed", "table", kind, "error", err)
			errs = append(errs, fmt.Errorf("save %s: %w", kind, err))
		}
		report.Tables = append(report.Tables, TableReport{Kind: kind, Result: res, Err: err})
	}

	dec := ds.Decoder
	if dec == nil {
		dec = sku.NewDecoder()
	}
	if err := a.SaveDecoder(ctx, dec); err != nil {
		a.log.Error("save decoder failed", "error", err)
		errs = append(errs, err)
	} else {
		report.DecoderOK = true
	}

	ts, err := a.Touch(ctx)
	if err != nil {
		a.log.Error("touch failed", "error", err)
		errs = append(errs, err)
	}
	report.UpdatedAt = ts
	return report, errors.Join(errs...)
}

// LoadAll reads every kind and the decoder. A table that fails to load is
// returned empty and its error joined into the result, so callers can
// still serve whatever did load.
func (a *Adapter) LoadAll(ctx context.Context) (Dataset, error) {
	ds := NewDataset()
	var errs []error
	for _, kind := range dataset.Kinds() {
		t, err := a.Load(ctx, string(kind))
		if err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", kind, err))
			t = dataset.Table{}
		}
		if kind == dataset.KindSales && !t.IsEmpty() {
			dataset.EnsureTransactionID(&t)
		}
		ds.Tables[kind] = t
	}
	dec, err := a.LoadDecoder(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("load decoder: %w", err))
	}
	ds.Decoder = dec
	return ds, errors.Join(errs...)
}
