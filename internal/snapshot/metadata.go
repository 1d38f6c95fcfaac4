package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sku-dashboard/internal/docstore"
	"sku-dashboard/internal/sku"
)

type decoderDoc struct {
	Decoder sku.Decoder `json:"decoder"`
}

type updateDoc struct {
	Timestamp time.Time `json:"timestamp"`
}

func (a *Adapter) SaveDecoder(ctx context.Context, d sku.Decoder) error {
	if err := docstore.SetJSON(ctx, a.store, a.metadataPath("sku_decoder"), decoderDoc{Decoder: d}); err != nil {
		return fmt.Errorf("write decoder: %w", err)
	}
	return nil
}

// LoadDecoder returns an empty decoder when none was saved.
func (a *Adapter) LoadDecoder(ctx context.Context) (sku.Decoder, error) {
	var doc decoderDoc
	err := docstore.GetJSON(ctx, a.store, a.metadataPath("sku_decoder"), &doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return sku.NewDecoder(), nil
	}
	if err != nil {
		return sku.NewDecoder(), err
	}
	if doc.Decoder == nil {
		return sku.NewDecoder(), nil
	}
	return doc.Decoder, nil
}

// Touch writes the store's current time as the update marker.
func (a *Adapter) Touch(ctx context.Context) (time.Time, error) {
	now, err := a.store.ServerTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("server time: %w", err)
	}
	now = now.UTC()
	if err := docstore.SetJSON(ctx, a.store, a.metadataPath("last_update"), updateDoc{Timestamp: now}); err != nil {
		return time.Time{}, fmt.Errorf("write update marker: %w", err)
	}
	return now, nil
}

// LastUpdated returns the zero time when no save has happened yet.
func (a *Adapter) LastUpdated(ctx context.Context) (time.Time, error) {
	var doc updateDoc
	err := docstore.GetJSON(ctx, a.store, a.metadataPath("last_update"), &doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return doc.Timestamp, nil
}
