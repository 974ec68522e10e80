package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rejoiceevents/decor-backend/internal/repo"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// Repository wires together payment persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindBookingForUpdate loads the booking under SELECT ... FOR UPDATE so one
// confirmation at a time settles it. Callers must be inside a transaction.
func (r *Repository) FindBookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindBooking loads the booking without locking.
func (r *Repository) FindBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.DB(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByStripePaymentID returns the payment carrying the processor id, or
// gorm.ErrRecordNotFound.
func (r *Repository) FindByStripePaymentID(ctx context.Context, stripePaymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.DB(ctx).
		First(&payment, "stripe_payment_id = ?", stripePaymentID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment inserts a confirmation record.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.DB(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateBookingStatus persists the booking's new status.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.DB(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}
