package portfolio

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/internal/repo"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// Repository wires together portfolio persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns projects newest event first, optionally scoped to one
// category slug.
func (r *Repository) List(ctx context.Context, categorySlug string) ([]models.PortfolioProject, error) {
	query := r.DB(ctx).
		Preload("Category").
		Order("event_date DESC, id DESC")
	if categorySlug != "" {
		query = query.
			Joins("JOIN rental_categories ON rental_categories.id = portfolio_projects.category_id").
			Where("rental_categories.slug = ?", categorySlug)
	}
	var projects []models.PortfolioProject
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByID loads one project with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PortfolioProject, error) {
	var project models.PortfolioProject
	err := r.DB(ctx).
		Preload("Category").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindCategoryByID loads the backing category row.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.RentalCategory, error) {
	var category models.RentalCategory
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts the project.
func (r *Repository) Create(ctx context.Context, project *models.PortfolioProject) (*models.PortfolioProject, error) {
	if err := r.DB(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Update persists the full project row.
func (r *Repository) Update(ctx context.Context, project *models.PortfolioProject) (*models.PortfolioProject, error) {
	if err := r.DB(ctx).Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.PortfolioProject{}).Error
}
