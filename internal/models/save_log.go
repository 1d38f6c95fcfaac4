package models

import "time"

// SaveLog records one table write performed by an admin save.
type SaveLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID string `gorm:"size:100;index" json:"user_id"`

	// sales, inbound, stock or sku_decoder
	Dataset string `gorm:"size:50;index" json:"dataset"`

	Rows       int    `json:"rows"`
	Chunks     int    `json:"chunks"`
	Generation string `gorm:"size:36" json:"generation"`

	Success bool   `json:"success"`
	Error   string `gorm:"size:500" json:"error,omitempty"`
}
