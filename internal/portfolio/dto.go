package portfolio

import (
	"time"

	"github.com/google/uuid"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// ProjectDTO is the published past-event payload returned to clients.
type ProjectDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	CategorySlug string    `json:"categorySlug,omitempty"`
	ImageURLs    []string  `json:"imageUrls"`
	EventDate    time.Time `json:"eventDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewProjectDTO builds the client payload from the persisted model.
func NewProjectDTO(project *models.PortfolioProject) *ProjectDTO {
	dto := &ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		CategoryID:  project.CategoryID,
		ImageURLs:   project.ImageURLs,
		EventDate:   project.EventDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if dto.ImageURLs == nil {
		dto.ImageURLs = []string{}
	}
	if project.Category != nil {
		dto.CategoryName = project.Category.Name
		dto.CategorySlug = project.Category.Slug
	}
	return dto
}
