package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

// Service exposes catalog reads plus the admin-only mutations.
type Service interface {
	ListItems(ctx context.Context, categoryID *uuid.UUID) ([]ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
}

// CreateItemInput holds the validated payload to create a catalog item.
type CreateItemInput struct {
	Name            string
	Description     *string
	TotalStock      int
	PricePerDay     decimal.Decimal
	PricePerWeekend *decimal.Decimal
	DurationNotes   *string
	ImageURL        *string
	CategoryID      uuid.UUID
}

// UpdateItemInput holds optional mutation values for a catalog item.
type UpdateItemInput struct {
	Name            *string
	Description     *string
	TotalStock      *int
	PricePerDay     *decimal.Decimal
	PricePerWeekend *decimal.Decimal
	DurationNotes   *string
	ImageURL        *string
	CategoryID      *uuid.UUID
}

// CreateCategoryInput holds the payload to create a storefront category.
type CreateCategoryInput struct {
	Name         string
	DisplayOrder int
}

type service struct {
	repo *Repository
}

// NewService constructs the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListItems(ctx context.Context, categoryID *uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.ListItems(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory items")
	}
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *NewItemDTO(&items[i]))
	}
	return out, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return NewItemDTO(item), nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.TotalStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalStock must not be negative")
	}
	if input.PricePerDay.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricePerDay must not be negative")
	}
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	item := &models.InventoryItem{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		TotalStock:      input.TotalStock,
		PricePerDay:     input.PricePerDay,
		PricePerWeekend: input.PricePerWeekend,
		DurationNotes:   input.DurationNotes,
		ImageURL:        input.ImageURL,
		CategoryID:      input.CategoryID,
	}
	if _, err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	return s.GetItem(ctx, item.ID)
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.TotalStock != nil {
		if *input.TotalStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "totalStock must not be negative")
		}
		// Reducing stock below already-reserved quantities is allowed;
		// availability then reports a negative remainder.
		item.TotalStock = *input.TotalStock
	}
	if input.PricePerDay != nil {
		if input.PricePerDay.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricePerDay must not be negative")
		}
		item.PricePerDay = *input.PricePerDay
	}
	if input.PricePerWeekend != nil {
		item.PricePerWeekend = input.PricePerWeekend
	}
	if input.DurationNotes != nil {
		item.DurationNotes = input.DurationNotes
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		item.CategoryID = *input.CategoryID
	}

	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
	}
	return s.GetItem(ctx, item.ID)
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindItemByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	references, err := s.repo.CountBookingLines(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count booking references")
	}
	if references > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "item is referenced by bookings and cannot be deleted")
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory item")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCategoryDTO(row))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	category := &models.RentalCategory{
		ID:           uuid.New(),
		Name:         name,
		Slug:         slugify(name),
		DisplayOrder: input.DisplayOrder,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	dto := NewCategoryDTO(CategoryWithCount{RentalCategory: *category})
	return &dto, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
