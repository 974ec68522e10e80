package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:portfolio_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.RentalCategory{}, &models.PortfolioProject{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("portfolio service: %v", err)
	}
	return svc
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.RentalCategory {
	t.Helper()
	category := models.RentalCategory{ID: uuid.New(), Name: name, Slug: slug}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &category
}

func TestCreateProject(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	category := seedCategory(t, db, "Weddings", "weddings")

	description := "Garden ceremony"
	dto, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Title:       "  Rose Arch Evening  ",
		Description: &description,
		CategoryID:  category.ID,
		ImageURLs:   []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		EventDate:   time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Title != "Rose Arch Evening" {
		t.Fatalf("expected trimmed title, got %q", dto.Title)
	}
	if dto.CategorySlug != "weddings" {
		t.Fatalf("expected category slug, got %q", dto.CategorySlug)
	}
	if len(dto.ImageURLs) != 2 {
		t.Fatalf("expected 2 image urls, got %d", len(dto.ImageURLs))
	}
}

func TestCreateProjectValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	category := seedCategory(t, db, "Weddings", "weddings")

	cases := []struct {
		name  string
		input CreateProjectInput
	}{
		{"missing title", CreateProjectInput{CategoryID: category.ID, EventDate: time.Now()}},
		{"missing event date", CreateProjectInput{Title: "X", CategoryID: category.ID}},
		{"unknown category", CreateProjectInput{Title: "X", CategoryID: uuid.New(), EventDate: time.Now()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListProjectsFiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	weddings := seedCategory(t, db, "Weddings", "weddings")
	corporate := seedCategory(t, db, "Corporate", "corporate")

	mustCreate := func(title string, categoryID uuid.UUID, eventDate time.Time) {
		t.Helper()
		_, err := svc.CreateProject(context.Background(), CreateProjectInput{
			Title:      title,
			CategoryID: categoryID,
			EventDate:  eventDate,
		})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mustCreate("Older Wedding", weddings.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	mustCreate("Newer Wedding", weddings.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	mustCreate("Gala", corporate.ID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	all, err := svc.ListProjects(context.Background(), "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}
	if all[0].Title != "Newer Wedding" {
		t.Fatalf("expected newest event first, got %q", all[0].Title)
	}

	scoped, err := svc.ListProjects(context.Background(), "weddings")
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 wedding projects, got %d", len(scoped))
	}
	for _, project := range scoped {
		if project.CategorySlug != "weddings" {
			t.Fatalf("expected weddings only, got %q", project.CategorySlug)
		}
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	category := seedCategory(t, db, "Weddings", "weddings")

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Title:      "Original",
		CategoryID: category.ID,
		ImageURLs:  []string{"https://cdn.example.com/a.jpg"},
		EventDate:  time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Renamed"
	updated, err := svc.UpdateProject(context.Background(), created.ID, UpdateProjectInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}
	if len(updated.ImageURLs) != 1 {
		t.Fatalf("untouched fields must survive, got %d image urls", len(updated.ImageURLs))
	}

	_, err = svc.UpdateProject(context.Background(), uuid.New(), UpdateProjectInput{Title: &title})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	category := seedCategory(t, db, "Weddings", "weddings")

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Title:      "Doomed",
		CategoryID: category.ID,
		EventDate:  time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteProject(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, err := svc.ListProjects(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no projects, got %d", len(remaining))
	}

	err = svc.DeleteProject(context.Background(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
