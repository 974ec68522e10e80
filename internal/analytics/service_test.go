package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:analytics_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RentalCategory{},
		&models.InventoryItem{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", PasswordHash: "x", Role: enums.UserRoleUser, Name: "Client"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedBooking(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.BookingStatus) *models.Booking {
	t.Helper()
	booking := models.Booking{ID: uuid.New(), UserID: userID, Status: status, TotalAmount: decimal.Zero}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return &booking
}

func seedItem(t *testing.T, db *gorm.DB, name string) *models.InventoryItem {
	t.Helper()
	category := models.RentalCategory{ID: uuid.New(), Name: "Cat " + uuid.NewString(), Slug: "cat-" + uuid.NewString()}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	item := models.InventoryItem{ID: uuid.New(), Name: name, TotalStock: 10, PricePerDay: decimal.NewFromInt(100), CategoryID: category.ID}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return &item
}

func seedLine(t *testing.T, db *gorm.DB, bookingID, itemID uuid.UUID, qty int) {
	t.Helper()
	line := models.BookingItem{ID: uuid.New(), BookingID: bookingID, ItemID: itemID, Quantity: qty}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed line: %v", err)
	}
}

func seedPayment(t *testing.T, db *gorm.DB, bookingID uuid.UUID, amount int64, at time.Time) {
	t.Helper()
	payment := models.Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		Amount:    decimal.NewFromInt(amount),
		Status:    enums.PaymentStatusFull,
		CreatedAt: at,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	pending := seedBooking(t, db, user.ID, enums.BookingStatusPending)
	confirmed := seedBooking(t, db, user.ID, enums.BookingStatusConfirmed)
	cancelled := seedBooking(t, db, user.ID, enums.BookingStatusCancelled)

	chairs := seedItem(t, db, "Chiavari Chair")
	arch := seedItem(t, db, "Flower Arch")
	seedLine(t, db, confirmed.ID, chairs.ID, 40)
	seedLine(t, db, pending.ID, chairs.ID, 10)
	seedLine(t, db, pending.ID, arch.ID, 2)
	// cancelled bookings never count toward the ranking
	seedLine(t, db, cancelled.ID, arch.ID, 99)

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	seedPayment(t, db, confirmed.ID, 4500, now.AddDate(0, 0, -1))
	seedPayment(t, db, confirmed.ID, 500, now.AddDate(0, -2, 0))
	// older than the trailing window; still part of total revenue
	seedPayment(t, db, confirmed.ID, 1000, now.AddDate(-1, 0, 0))

	svc := &service{repo: NewRepository(db), now: func() time.Time { return now }}
	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if !stats.TotalRevenue.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("expected total revenue 6000, got %s", stats.TotalRevenue)
	}

	if stats.BookingsByStatus["PENDING"] != 1 ||
		stats.BookingsByStatus["CONFIRMED"] != 1 ||
		stats.BookingsByStatus["CANCELLED"] != 1 ||
		stats.BookingsByStatus["COMPLETED"] != 0 {
		t.Fatalf("unexpected status counts %+v", stats.BookingsByStatus)
	}

	if len(stats.TopItems) != 2 {
		t.Fatalf("expected 2 ranked items, got %d", len(stats.TopItems))
	}
	if stats.TopItems[0].ItemID != chairs.ID || stats.TopItems[0].TotalQuantity != 50 {
		t.Fatalf("expected chairs on top with 50, got %+v", stats.TopItems[0])
	}
	if stats.TopItems[1].TotalQuantity != 2 {
		t.Fatalf("cancelled lines must not count, got %+v", stats.TopItems[1])
	}

	if len(stats.MonthlyRevenue) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d", len(stats.MonthlyRevenue))
	}
	if stats.MonthlyRevenue[0].Month != "2026-03" || stats.MonthlyRevenue[5].Month != "2026-08" {
		t.Fatalf("expected oldest-first window 2026-03..2026-08, got %s..%s",
			stats.MonthlyRevenue[0].Month, stats.MonthlyRevenue[5].Month)
	}
	if !stats.MonthlyRevenue[5].Revenue.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("expected 4500 in the current month, got %s", stats.MonthlyRevenue[5].Revenue)
	}
	if !stats.MonthlyRevenue[3].Revenue.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500 two months back, got %s", stats.MonthlyRevenue[3].Revenue)
	}
}

func TestTopRentedItemsLimit(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	booking := seedBooking(t, db, user.ID, enums.BookingStatusConfirmed)

	for i := 0; i < 7; i++ {
		item := seedItem(t, db, "Item "+uuid.NewString())
		seedLine(t, db, booking.ID, item.ID, i+1)
	}

	repo := NewRepository(db)
	rows, err := repo.TopRentedItems(context.Background(), 5)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].TotalQuantity != 7 {
		t.Fatalf("expected busiest first, got %+v", rows[0])
	}
}
