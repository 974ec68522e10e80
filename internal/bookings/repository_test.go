package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	"github.com/rejoiceevents/decor-backend/pkg/pagination"
)

func seedBooking(t *testing.T, db *gorm.DB, userID, itemID uuid.UUID, createdAt time.Time) *models.Booking {
	t.Helper()
	booking := models.Booking{
		ID:          uuid.New(),
		UserID:      userID,
		StartDate:   time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2027, 6, 3, 0, 0, 0, 0, time.UTC),
		Status:      enums.BookingStatusPending,
		TotalAmount: decimal.NewFromInt(4500),
		Items: []models.BookingItem{
			{ID: uuid.New(), ItemID: itemID, Quantity: 2},
		},
	}
	require.NoError(t, db.Create(&booking).Error)
	// autoCreateTime stamps rows at insert; pin it so cursor ordering is
	// deterministic across fast inserts.
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", booking.ID).Update("created_at", createdAt).Error)
	booking.CreatedAt = createdAt
	return &booking
}

func TestRepositoryFindByIDPreloadsRelations(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)
	item := seedItem(t, db, 10, 1500)
	seeded := seedBooking(t, db, user.ID, item.ID, time.Now().UTC())

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, found.User)
	assert.Equal(t, user.Email, found.User.Email)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].Item)
	assert.Equal(t, item.Name, found.Items[0].Item.Name)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserScopesToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	owner := seedUser(t, db)
	other := seedUser(t, db)
	item := seedItem(t, db, 10, 1500)
	seedBooking(t, db, owner.ID, item.ID, time.Now().UTC())
	seedBooking(t, db, owner.ID, item.ID, time.Now().UTC().Add(-time.Hour))
	seedBooking(t, db, other.ID, item.ID, time.Now().UTC())

	rows, err := repo.ListByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, owner.ID, row.UserID)
	}
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))
}

func TestRepositoryListAllCursorPaging(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)
	item := seedItem(t, db, 10, 1500)

	base := time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC)
	var all []*models.Booking
	for i := 0; i < 5; i++ {
		all = append(all, seedBooking(t, db, user.ID, item.ID, base.Add(time.Duration(i)*time.Minute)))
	}

	page, err := repo.ListAll(context.Background(), nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, all[4].ID, page[0].ID)

	cursor := &pagination.Cursor{CreatedAt: page[1].CreatedAt, ID: page[1].ID}
	rest, err := repo.ListAll(context.Background(), cursor, 10)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, all[2].ID, rest[0].ID)
	assert.Equal(t, all[0].ID, rest[2].ID)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db)
	item := seedItem(t, db, 10, 1500)
	seeded := seedBooking(t, db, user.ID, item.ID, time.Now().UTC())

	err := repo.UpdateStatus(context.Background(), seeded.ID, string(enums.BookingStatusConfirmed))
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusConfirmed, found.Status)
}
