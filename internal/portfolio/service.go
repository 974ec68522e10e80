package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

// Service exposes the public past-works feed plus the admin mutations.
type Service interface {
	ListProjects(ctx context.Context, categorySlug string) ([]ProjectDTO, error)
	CreateProject(ctx context.Context, input CreateProjectInput) (*ProjectDTO, error)
	UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// CreateProjectInput holds the validated payload to publish a past event.
type CreateProjectInput struct {
	Title       string
	Description *string
	CategoryID  uuid.UUID
	ImageURLs   []string
	EventDate   time.Time
}

// UpdateProjectInput holds optional mutation values for a project.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	CategoryID  *uuid.UUID
	ImageURLs   *[]string
	EventDate   *time.Time
}

type service struct {
	repo *Repository
}

// NewService constructs the portfolio service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("portfolio repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProjects(ctx context.Context, categorySlug string) ([]ProjectDTO, error) {
	projects, err := s.repo.List(ctx, strings.TrimSpace(categorySlug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list portfolio projects")
	}
	out := make([]ProjectDTO, 0, len(projects))
	for i := range projects {
		out = append(out, *NewProjectDTO(&projects[i]))
	}
	return out, nil
}

func (s *service) CreateProject(ctx context.Context, input CreateProjectInput) (*ProjectDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.EventDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "eventDate required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	project := &models.PortfolioProject{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		ImageURLs:   input.ImageURLs,
		EventDate:   input.EventDate.UTC(),
	}
	if _, err := s.repo.Create(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create portfolio project")
	}
	return s.get(ctx, project.ID)
}

func (s *service) UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "portfolio project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load portfolio project")
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		project.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		project.CategoryID = *input.CategoryID
	}
	if input.ImageURLs != nil {
		project.ImageURLs = *input.ImageURLs
	}
	if input.EventDate != nil {
		if input.EventDate.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "eventDate cannot be empty")
		}
		project.EventDate = input.EventDate.UTC()
	}

	if _, err := s.repo.Update(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update portfolio project")
	}
	return s.get(ctx, project.ID)
}

func (s *service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "portfolio project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load portfolio project")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete portfolio project")
	}
	return nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load portfolio project")
	}
	return NewProjectDTO(project), nil
}
