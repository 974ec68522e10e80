package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/internal/repo"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the admin dashboard.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// TotalRevenue sums every recorded payment.
func (r *Repository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// StatusCount is one booking-status bucket.
type StatusCount struct {
	Status string
	Total  int64
}

// CountBookingsByStatus groups all bookings by lifecycle status.
func (r *Repository) CountBookingsByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.DB(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ItemQuantity is one catalog item with its summed rented quantity.
type ItemQuantity struct {
	ItemID        uuid.UUID
	ItemName      string
	TotalQuantity int64
}

// TopRentedItems returns the most-rented items across non-cancelled
// bookings, busiest first.
func (r *Repository) TopRentedItems(ctx context.Context, limit int) ([]ItemQuantity, error) {
	var rows []ItemQuantity
	err := r.DB(ctx).
		Model(&models.BookingItem{}).
		Select("booking_items.item_id AS item_id, inventory_items.name AS item_name, SUM(booking_items.quantity) AS total_quantity").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Joins("JOIN inventory_items ON inventory_items.id = booking_items.item_id").
		Where("bookings.status <> ?", enums.BookingStatusCancelled).
		Group("booking_items.item_id, inventory_items.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PaymentPoint is one payment flattened to what revenue bucketing needs.
type PaymentPoint struct {
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// PaymentsSince lists payments recorded on or after the cutoff. Bucketing
// by month happens in the service, keeping the SQL portable across the
// Postgres and sqlite drivers.
func (r *Repository) PaymentsSince(ctx context.Context, cutoff time.Time) ([]PaymentPoint, error) {
	var rows []PaymentPoint
	err := r.DB(ctx).
		Model(&models.Payment{}).
		Select("amount, created_at").
		Where("created_at >= ?", cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
