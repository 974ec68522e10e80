package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/api/responses"
	"github.com/rejoiceevents/decor-backend/api/validators"
	inventorysvc "github.com/rejoiceevents/decor-backend/internal/inventory"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
)

// ListInventory returns catalog items, optionally filtered by category.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListItems(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetInventoryItem returns one catalog item by id.
func GetInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListInventoryCategories returns all categories with their item counts.
func ListInventoryCategories(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type createItemRequest struct {
	Name            string           `json:"name" validate:"required"`
	Description     *string          `json:"description,omitempty"`
	TotalStock      int              `json:"totalStock" validate:"min=0"`
	PricePerDay     decimal.Decimal  `json:"pricePerDay"`
	PricePerWeekend *decimal.Decimal `json:"pricePerWeekend,omitempty"`
	DurationNotes   *string          `json:"durationNotes,omitempty"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	CategoryID      string           `json:"categoryId" validate:"required"`
}

type updateItemRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	TotalStock      *int             `json:"totalStock,omitempty" validate:"omitempty,min=0"`
	PricePerDay     *decimal.Decimal `json:"pricePerDay,omitempty"`
	PricePerWeekend *decimal.Decimal `json:"pricePerWeekend,omitempty"`
	DurationNotes   *string          `json:"durationNotes,omitempty"`
	ImageURL        *string          `json:"imageUrl,omitempty"`
	CategoryID      *string          `json:"categoryId,omitempty"`
}

type createCategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	DisplayOrder int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

// CreateInventoryItem handles admin item creation.
func CreateInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(strings.TrimSpace(payload.CategoryID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		item, err := svc.CreateItem(r.Context(), inventorysvc.CreateItemInput{
			Name:            payload.Name,
			Description:     payload.Description,
			TotalStock:      payload.TotalStock,
			PricePerDay:     payload.PricePerDay,
			PricePerWeekend: payload.PricePerWeekend,
			DurationNotes:   payload.DurationNotes,
			ImageURL:        payload.ImageURL,
			CategoryID:      categoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateInventoryItem handles admin partial updates of an item.
func UpdateInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventorysvc.UpdateItemInput{
			Name:            payload.Name,
			Description:     payload.Description,
			TotalStock:      payload.TotalStock,
			PricePerDay:     payload.PricePerDay,
			PricePerWeekend: payload.PricePerWeekend,
			DurationNotes:   payload.DurationNotes,
			ImageURL:        payload.ImageURL,
		}
		if payload.CategoryID != nil {
			categoryID, err := uuid.Parse(strings.TrimSpace(*payload.CategoryID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			input.CategoryID = &categoryID
		}

		item, err := svc.UpdateItem(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteInventoryItem removes an item unless bookings reference it.
func DeleteInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateInventoryCategory handles admin category creation.
func CreateInventoryCategory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), inventorysvc.CreateCategoryInput{
			Name:         payload.Name,
			DisplayOrder: payload.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}
