package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/pkg/enums"
)

// Payment records one confirmation event for a booking. Manual payments
// carry a method plus reference number; card payments carry the Stripe
// payment id, unique so webhook retries cannot insert twice.
type Payment struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	BookingID       uuid.UUID            `gorm:"column:booking_id;type:uuid;not null;index"`
	Amount          decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	Status          enums.PaymentStatus  `gorm:"column:status;type:text;not null;default:'FULL'"`
	PaymentMethod   *enums.PaymentMethod `gorm:"column:payment_method;type:text"`
	ReferenceNumber *string              `gorm:"column:reference_number"`
	StripePaymentID *string              `gorm:"column:stripe_payment_id;uniqueIndex"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
