package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/enums"
)

// The sqlite driver backs every repository and service test, so the model
// tags must produce DDL it accepts. Postgres-only defaults live in the
// goose migrations, not on the structs.
func TestModelsMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:models_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&User{},
		&RentalCategory{},
		&InventoryItem{},
		&Booking{},
		&BookingItem{},
		&Payment{},
		&PortfolioProject{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := User{ID: uuid.New(), Email: "a@example.com", PasswordHash: "x", Role: enums.UserRoleUser, Name: "A"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	category := RentalCategory{ID: uuid.New(), Name: "Backdrops", Slug: "backdrops"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("insert category: %v", err)
	}

	item := InventoryItem{ID: uuid.New(), Name: "Arch", TotalStock: 2, PricePerDay: decimal.NewFromInt(500), CategoryID: category.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("insert item: %v", err)
	}
}
