package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

// Query asks how many units of an item are free for a closed date range.
type Query struct {
	ItemID           uuid.UUID
	RequestedQty     int
	StartDate        time.Time
	EndDate          time.Time
	ExcludeBookingID *uuid.UUID
}

// Result reports the stock arithmetic for one item and date range.
// AvailableStock can be negative when stock was reduced after bookings
// were taken; IsAvailable stays correct either way.
type Result struct {
	IsAvailable      bool `json:"isAvailable"`
	AvailableStock   int  `json:"availableStock"`
	TotalStock       int  `json:"totalStock"`
	ReservedQuantity int  `json:"reservedQuantity"`
}

// Service computes rental availability. Read-only; callers that need the
// check inside their own transaction (booking creation re-validates under
// a row lock) bind one with WithTx.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Check(ctx context.Context, q Query) (*Result, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the availability engine bound to the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{db: tx}
}

func (s *service) Check(ctx context.Context, q Query) (*Result, error) {
	if q.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if q.RequestedQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive")
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	if q.EndDate.Before(q.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}

	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", q.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}

	reserved, err := s.reservedQuantity(ctx, q)
	if err != nil {
		return nil, err
	}

	available := item.TotalStock - reserved
	return &Result{
		IsAvailable:      available >= q.RequestedQty,
		AvailableStock:   available,
		TotalStock:       item.TotalStock,
		ReservedQuantity: reserved,
	}, nil
}

// reservedQuantity sums line quantities of non-cancelled bookings whose
// closed interval overlaps the query range: start <= qEnd AND end >= qStart.
// A booking that starts or ends exactly on a boundary date counts.
func (s *service) reservedQuantity(ctx context.Context, q Query) (int, error) {
	query := s.db.WithContext(ctx).
		Model(&models.BookingItem{}).
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.item_id = ?", q.ItemID).
		Where("bookings.status <> ?", enums.BookingStatusCancelled).
		Where("bookings.start_date <= ? AND bookings.end_date >= ?", q.EndDate, q.StartDate)

	if q.ExcludeBookingID != nil {
		query = query.Where("bookings.id <> ?", *q.ExcludeBookingID)
	}

	var reserved int
	err := query.Select("COALESCE(SUM(booking_items.quantity), 0)").Scan(&reserved).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum reserved quantity")
	}
	return reserved, nil
}
