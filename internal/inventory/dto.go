package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// ItemDTO is the catalog item payload returned to clients.
type ItemDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	TotalStock      int              `json:"totalStock"`
	PricePerDay     decimal.Decimal  `json:"pricePerDay"`
	PricePerWeekend *decimal.Decimal `json:"pricePerWeekend,omitempty"`
	DurationNotes   *string          `json:"durationNotes,omitempty"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	CategoryID      uuid.UUID        `json:"categoryId"`
	CategoryName    string           `json:"categoryName,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// CategoryDTO is one storefront category with its live item count.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	DisplayOrder int       `json:"displayOrder"`
	ItemCount    int64     `json:"itemCount"`
}

// NewItemDTO builds the client payload from the persisted model.
func NewItemDTO(item *models.InventoryItem) *ItemDTO {
	dto := &ItemDTO{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		TotalStock:      item.TotalStock,
		PricePerDay:     item.PricePerDay,
		PricePerWeekend: item.PricePerWeekend,
		DurationNotes:   item.DurationNotes,
		ImageURL:        item.ImageURL,
		CategoryID:      item.CategoryID,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if item.Category != nil {
		dto.CategoryName = item.Category.Name
	}
	return dto
}

// NewCategoryDTO maps a counted category row to its payload.
func NewCategoryDTO(row CategoryWithCount) CategoryDTO {
	return CategoryDTO{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		DisplayOrder: row.DisplayOrder,
		ItemCount:    row.ItemCount,
	}
}
