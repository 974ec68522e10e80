package models

import (
	"time"

	"github.com/google/uuid"
)

// RentalCategory groups catalog items for the storefront navigation.
type RentalCategory struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name         string          `gorm:"column:name;not null;uniqueIndex"`
	Slug         string          `gorm:"column:slug;not null;uniqueIndex"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
	Items        []InventoryItem `gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
