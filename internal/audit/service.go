// Package audit records the history of admin saves.
package audit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sku-dashboard/internal/models"
	"sku-dashboard/internal/snapshot"
)

// DecoderDataset is the Dataset value of the log row written for the
// decoder.
const DecoderDataset = "sku_decoder"

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record writes one log row per table in the report plus one for the
// decoder.
func (s *Service) Record(ctx context.Context, userID string, report snapshot.SaveReport) ([]models.SaveLog, error) {
	logs := make([]models.SaveLog, 0, len(report.Tables)+1)
	for _, t := range report.Tables {
		entry := models.SaveLog{
			UserID:     userID,
			Dataset:    string(t.Kind),
			Rows:       t.Result.Rows,
			Chunks:     t.Result.Chunks,
			Generation: t.Result.Generation,
			Success:    t.Err == nil,
		}
		if t.Err != nil {
			entry.Error = truncate(t.Err.Error(), 500)
		}
		logs = append(logs, entry)
	}
	logs = append(logs, models.SaveLog{
		UserID:  userID,
		Dataset: DecoderDataset,
		Success: report.DecoderOK,
	})

	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, fmt.Errorf("save log could not be written: %w", err)
	}
	return logs, nil
}

type Filter struct {
	UserID  string
	Dataset string
	Since   time.Time
	Limit   int
}

// List returns matching logs, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]models.SaveLog, error) {
	q := s.db.WithContext(ctx).Model(&models.SaveLog{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Dataset != "" {
		q = q.Where("dataset = ?", f.Dataset)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var logs []models.SaveLog
	if err := q.Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list save logs: %w", err)
	}
	return logs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
