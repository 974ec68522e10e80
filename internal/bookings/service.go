package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/internal/availability"
	"github.com/rejoiceevents/decor-backend/internal/inventory"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/metrics"
	"github.com/rejoiceevents/decor-backend/pkg/pagination"
)

// Service exposes the booking lifecycle.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*BookingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.BookingStatus) (*BookingDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*BookingListResult, error)
}

// LineInput is one requested (item, quantity) pair.
type LineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// CreateInput holds the validated payload to create a booking. An empty
// Items slice books a consultation: dates reserved, nothing priced.
type CreateInput struct {
	StartDate time.Time
	EndDate   time.Time
	EventType *string
	Venue     *string
	Notes     *string
	Items     []LineInput
}

// UnavailableItem names the line that blocked a creation.
type UnavailableItem struct {
	ItemID         uuid.UUID `json:"itemId"`
	ItemName       string    `json:"itemName"`
	RequestedQty   int       `json:"requestedQty"`
	AvailableStock int       `json:"availableStock"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo          *Repository
	inventoryRepo *inventory.Repository
	availability  availability.Service
	tx            txRunner
	bookingStats  *metrics.BookingMetrics
}

// NewService constructs the booking lifecycle service.
func NewService(repo *Repository, inventoryRepo *inventory.Repository, availabilitySvc availability.Service, tx txRunner, bookingStats *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if availabilitySvc == nil {
		return nil, fmt.Errorf("availability service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:          repo,
		inventoryRepo: inventoryRepo,
		availability:  availabilitySvc,
		tx:            tx,
		bookingStats:  bookingStats,
	}, nil
}

// Create validates the request, re-checks availability for every line under
// a row lock, and persists the booking with its lines in one transaction.
// Any unavailable line aborts the whole creation with nothing persisted.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*BookingDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.validateCreate(input); err != nil {
		s.bookingStats.IncRejected("validation")
		return nil, err
	}

	booking := &models.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      enums.BookingStatusPending,
		TotalAmount: decimal.Zero,
		EventType:   input.EventType,
		Venue:       input.Venue,
		Notes:       input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if len(input.Items) == 0 {
			_, err := s.repo.WithTx(tx).Create(ctx, booking)
			return err
		}

		itemIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, line := range input.Items {
			itemIDs = append(itemIDs, line.ItemID)
		}

		// Row locks on the inventory items serialize concurrent creations
		// touching the same stock; the availability re-check below then sees
		// every committed competitor.
		lockedItems, err := s.inventoryRepo.WithTx(tx).LockItemsForUpdate(ctx, itemIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock inventory items")
		}
		itemsByID := make(map[uuid.UUID]*models.InventoryItem, len(lockedItems))
		for i := range lockedItems {
			itemsByID[lockedItems[i].ID] = &lockedItems[i]
		}

		checker := s.availability.WithTx(tx)
		total := decimal.Zero
		days := rentalDays(input.StartDate, input.EndDate)

		for _, line := range input.Items {
			item, ok := itemsByID[line.ItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			result, err := checker.Check(ctx, availability.Query{
				ItemID:       line.ItemID,
				RequestedQty: line.Quantity,
				StartDate:    input.StartDate,
				EndDate:      input.EndDate,
			})
			if err != nil {
				return err
			}
			if !result.IsAvailable {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("%s has only %d available for the requested dates", item.Name, result.AvailableStock)).
					WithDetails(UnavailableItem{
						ItemID:         item.ID,
						ItemName:       item.Name,
						RequestedQty:   line.Quantity,
						AvailableStock: result.AvailableStock,
					})
			}

			lineTotal := item.PricePerDay.
				Mul(decimal.NewFromInt(int64(line.Quantity))).
				Mul(decimal.NewFromInt(days))
			total = total.Add(lineTotal)

			booking.Items = append(booking.Items, models.BookingItem{
				ID:       uuid.New(),
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
			})
		}

		booking.TotalAmount = total
		_, err = s.repo.WithTx(tx).Create(ctx, booking)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			s.bookingStats.IncRejected("insufficient_stock")
		}
		return nil, err
	}

	if len(input.Items) == 0 {
		s.bookingStats.IncCreated("consultation")
	} else {
		s.bookingStats.IncCreated("items")
	}
	return s.Get(ctx, booking.ID)
}

func (s *service) validateCreate(input CreateInput) error {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate.Before(today) {
		return pkgerrors.New(pkgerrors.CodeValidation, "startDate cannot be in the past")
	}
	if input.EndDate.Before(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, line := range input.Items {
		if line.ItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item id required on every line")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive on every line")
		}
		if _, dup := seen[line.ItemID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in booking lines")
		}
		seen[line.ItemID] = struct{}{}
	}
	return nil
}

// rentalDays bills the span between the dates, rounding partial days up.
// A same-day rental still bills one day.
func rentalDays(start, end time.Time) int64 {
	diff := end.Sub(start)
	days := int64(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	return NewBookingDTO(booking), nil
}

// UpdateStatus moves the booking through the lifecycle. Illegal moves,
// including anything out of a terminal state, fail with STATE_CONFLICT.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.BookingStatus) (*BookingDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown booking status")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, next)).
			WithDetails(map[string]string{"from": string(booking.Status), "to": string(next)})
	}
	if err := s.repo.UpdateStatus(ctx, id, string(next)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking status")
	}
	return s.Get(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	out := make([]BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, *NewBookingDTO(&bookings[i]))
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*BookingListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	bookings, err := s.repo.ListAll(ctx, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	result := &BookingListResult{Bookings: make([]BookingDTO, 0, len(bookings))}
	if len(bookings) > limit {
		bookings = bookings[:limit]
		last := bookings[len(bookings)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for i := range bookings {
		result.Bookings = append(result.Bookings, *NewBookingDTO(&bookings[i]))
	}
	return result, nil
}
