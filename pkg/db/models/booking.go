package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/pkg/enums"
)

// Booking reserves item quantities for a closed date range. TotalAmount is
// computed once at creation and never recomputed by later status changes.
type Booking struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	User        *User               `gorm:"foreignKey:UserID"`
	StartDate   time.Time           `gorm:"column:start_date;not null"`
	EndDate     time.Time           `gorm:"column:end_date;not null"`
	Status      enums.BookingStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TotalAmount decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	EventType   *string             `gorm:"column:event_type"`
	Venue       *string             `gorm:"column:venue"`
	Notes       *string             `gorm:"column:notes"`
	Items       []BookingItem       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Payments    []Payment           `gorm:"foreignKey:BookingID"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
