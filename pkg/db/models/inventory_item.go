package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is one rentable catalog entry. TotalStock counts the
// physical units owned; availability against a date range is derived from
// overlapping bookings, never stored.
type InventoryItem struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name            string           `gorm:"column:name;not null"`
	Description     *string          `gorm:"column:description"`
	TotalStock      int              `gorm:"column:total_stock;not null;default:0"`
	PricePerDay     decimal.Decimal  `gorm:"column:price_per_day;type:numeric(10,2);not null"`
	PricePerWeekend *decimal.Decimal `gorm:"column:price_per_weekend;type:numeric(10,2)"`
	DurationNotes   *string          `gorm:"column:duration_notes"`
	ImageURL        *string          `gorm:"column:image_url"`
	CategoryID      uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Category        *RentalCategory  `gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
