package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rejoiceevents/decor-backend/internal/repo"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
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

// ListItems returns catalog items ordered by name, optionally filtered to
// one category.
func (r *Repository) ListItems(ctx context.Context, categoryID *uuid.UUID) ([]models.InventoryItem, error) {
	query := r.DB(ctx).
		Preload("Category").
		Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByID loads one item with its category.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB(ctx).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// LockItemsForUpdate loads the given items under SELECT ... FOR UPDATE.
// Callers must be inside a transaction; the lock holds until it ends.
func (r *Repository) LockItemsForUpdate(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem inserts a new catalog row.
func (r *Repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem persists the full item row.
func (r *Repository) UpdateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.DB(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item by ID.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.InventoryItem{}).Error
}

// CountBookingLines reports how many booking lines reference the item.
func (r *Repository) CountBookingLines(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.BookingItem{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CategoryWithCount is a category row plus its live item count.
type CategoryWithCount struct {
	models.RentalCategory
	ItemCount int64
}

// ListCategories returns all categories in display order with item counts.
func (r *Repository) ListCategories(ctx context.Context) ([]CategoryWithCount, error) {
	var categories []models.RentalCategory
	err := r.DB(ctx).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uuid.UUID
		Total      int64
	}
	var counts []countRow
	err = r.DB(ctx).
		Model(&models.InventoryItem{}).
		Select("category_id, COUNT(*) AS total").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byCategory := make(map[uuid.UUID]int64, len(counts))
	for _, row := range counts {
		byCategory[row.CategoryID] = row.Total
	}

	out := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategoryWithCount{RentalCategory: category, ItemCount: byCategory[category.ID]})
	}
	return out, nil
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.RentalCategory, error) {
	var category models.RentalCategory
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.RentalCategory) (*models.RentalCategory, error) {
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}
