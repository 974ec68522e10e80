package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingItem is one (item, quantity) line inside a booking. Lines are
// created atomically with their parent and are immutable afterwards.
type BookingItem struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	BookingID uuid.UUID      `gorm:"column:booking_id;type:uuid;not null;index"`
	ItemID    uuid.UUID      `gorm:"column:item_id;type:uuid;not null;index"`
	Item      *InventoryItem `gorm:"foreignKey:ItemID"`
	Quantity  int            `gorm:"column:quantity;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
