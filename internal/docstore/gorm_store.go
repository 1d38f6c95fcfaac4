package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sku-dashboard/internal/models"
)

// GormStore keeps documents in a single SQL table. Postgres stores the body
// as jsonb; SQLite keeps it as text.
type GormStore struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, clock: time.Now}
}

func (s *GormStore) Get(ctx context.Context, path string) ([]byte, error) {
	if _, _, err := Split(path); err != nil {
		return nil, err
	}
	var doc models.Document
	err := s.db.WithContext(ctx).First(&doc, "path = ?", path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return []byte(doc.Data), nil
}

func (s *GormStore) Set(ctx context.Context, path string, data []byte) error {
	collection, _, err := Split(path)
	if err != nil {
		return err
	}
	doc := models.Document{
		Path:       path,
		Collection: collection,
		Data:       datatypes.JSON(data),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, path string) error {
	if _, _, err := Split(path); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("path = ?", path).Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, collection string) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("collection = ?", collection).
		Order("path ASC").
		Pluck("path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return paths, nil
}

// ServerTime asks Postgres for now(); other dialects fall back to the
// process clock.
func (s *GormStore) ServerTime(ctx context.Context) (time.Time, error) {
	if s.db.Dialector.Name() == "postgres" {
		var now time.Time
		if err := s.db.WithContext(ctx).Raw("SELECT now()").Scan(&now).Error; err != nil {
			return time.Time{}, fmt.Errorf("server time: %w", err)
		}
		return now.UTC(), nil
	}
	return s.clock().UTC(), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
