package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rejoiceevents/decor-backend/api/responses"
	"github.com/rejoiceevents/decor-backend/api/validators"
	portfoliosvc "github.com/rejoiceevents/decor-backend/internal/portfolio"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
)

// ListPortfolioProjects returns published past events, optionally scoped
// to one category slug.
func ListPortfolioProjects(svc portfoliosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "portfolio service unavailable"))
			return
		}

		projects, err := svc.ListProjects(r.Context(), r.URL.Query().Get("categorySlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, projects)
	}
}

type createProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description,omitempty"`
	CategoryID  string   `json:"categoryId" validate:"required"`
	ImageURLs   []string `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
	EventDate   string   `json:"eventDate" validate:"required"`
}

type updateProjectRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	ImageURLs   *[]string `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
	EventDate   *string   `json:"eventDate,omitempty"`
}

// CreatePortfolioProject handles admin publication of a past event.
func CreatePortfolioProject(svc portfoliosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "portfolio service unavailable"))
			return
		}

		var payload createProjectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(strings.TrimSpace(payload.CategoryID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}
		eventDate, err := parseBookingDate(payload.EventDate, "eventDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.CreateProject(r.Context(), portfoliosvc.CreateProjectInput{
			Title:       payload.Title,
			Description: payload.Description,
			CategoryID:  categoryID,
			ImageURLs:   payload.ImageURLs,
			EventDate:   eventDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, project)
	}
}

// UpdatePortfolioProject handles admin partial updates of a project.
func UpdatePortfolioProject(svc portfoliosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "portfolio service unavailable"))
			return
		}

		id, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProjectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := portfoliosvc.UpdateProjectInput{
			Title:       payload.Title,
			Description: payload.Description,
			ImageURLs:   payload.ImageURLs,
		}
		if payload.CategoryID != nil {
			categoryID, err := uuid.Parse(strings.TrimSpace(*payload.CategoryID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			input.CategoryID = &categoryID
		}
		if payload.EventDate != nil {
			eventDate, err := parseBookingDate(*payload.EventDate, "eventDate")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.EventDate = &eventDate
		}

		project, err := svc.UpdateProject(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, project)
	}
}

// DeletePortfolioProject removes a published project.
func DeletePortfolioProject(svc portfoliosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "portfolio service unavailable"))
			return
		}

		id, err := parseProjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProject(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "projectId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project id")
	}
	return id, nil
}
