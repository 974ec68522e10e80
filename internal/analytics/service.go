package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

const (
	topItemsLimit     = 5
	trailingMonths    = 6
	monthBucketLayout = "2006-01"
)

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalRevenue     decimal.Decimal  `json:"totalRevenue"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
	TopItems         []TopItemDTO     `json:"topItems"`
	MonthlyRevenue   []MonthRevenue   `json:"monthlyRevenue"`
}

// TopItemDTO is one most-rented catalog item.
type TopItemDTO struct {
	ItemID        uuid.UUID `json:"itemId"`
	ItemName      string    `json:"itemName"`
	TotalQuantity int64     `json:"totalQuantity"`
}

// MonthRevenue is the revenue collected in one calendar month.
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Service assembles the admin dashboard statistics.
type Service interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the dashboard stats service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalRevenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}

	statusCounts, err := s.repo.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count bookings")
	}
	byStatus := make(map[string]int64, 4)
	for _, status := range []enums.BookingStatus{
		enums.BookingStatusPending,
		enums.BookingStatusConfirmed,
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
	} {
		byStatus[string(status)] = 0
	}
	for _, row := range statusCounts {
		byStatus[row.Status] = row.Total
	}

	topItems, err := s.repo.TopRentedItems(ctx, topItemsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank items")
	}
	topDTOs := make([]TopItemDTO, 0, len(topItems))
	for _, row := range topItems {
		topDTOs = append(topDTOs, TopItemDTO(row))
	}

	monthly, err := s.monthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalRevenue:     totalRevenue,
		BookingsByStatus: byStatus,
		TopItems:         topDTOs,
		MonthlyRevenue:   monthly,
	}, nil
}

// monthlyRevenue buckets payments into the trailing six calendar months,
// oldest first, including empty months.
func (s *service) monthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	now := s.now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cutoff := currentMonth.AddDate(0, -(trailingMonths - 1), 0)

	payments, err := s.repo.PaymentsSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payments")
	}

	buckets := make(map[string]decimal.Decimal, trailingMonths)
	for _, payment := range payments {
		key := payment.CreatedAt.UTC().Format(monthBucketLayout)
		buckets[key] = buckets[key].Add(payment.Amount)
	}

	out := make([]MonthRevenue, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		month := cutoff.AddDate(0, i, 0)
		key := month.Format(monthBucketLayout)
		out = append(out, MonthRevenue{Month: key, Revenue: buckets[key]})
	}
	return out, nil
}
