package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/internal/repo"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/pagination"
)

// Repository wires together booking persistence helpers.
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

// Create inserts the booking and its line items in one go.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.DB(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// FindByID loads one booking with its lines, payments, and owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB(ctx).
		Preload("User").
		Preload("Items.Item").
		Preload("Payments").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus persists a status change on the booking row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.DB(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListByUser returns the user's bookings newest-first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB(ctx).
		Preload("Items.Item").
		Preload("Payments").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll returns bookings newest-first with the owning user, cursor-paged.
// It fetches limit+1 rows so the caller can detect the next page.
func (r *Repository) ListAll(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Booking, error) {
	query := r.DB(ctx).
		Preload("User").
		Preload("Items.Item").
		Preload("Payments").
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
