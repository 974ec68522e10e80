package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/pkg/db/models"
)

// BookingDTO is the booking payload returned to clients.
type BookingDTO struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	User        *OwnerDTO        `json:"user,omitempty"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	EventType   *string          `json:"eventType,omitempty"`
	Venue       *string          `json:"venue,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Items       []BookingLineDTO `json:"items"`
	Payments    []PaymentDTO     `json:"payments"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// OwnerDTO surfaces limited account data on admin booking lists.
type OwnerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone,omitempty"`
}

// BookingLineDTO is one reserved (item, quantity) pair.
type BookingLineDTO struct {
	ItemID      uuid.UUID       `json:"itemId"`
	ItemName    string          `json:"itemName,omitempty"`
	Quantity    int             `json:"quantity"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
}

// PaymentDTO is one confirmation record attached to a booking.
type PaymentDTO struct {
	ID              uuid.UUID       `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	PaymentMethod   *string         `json:"paymentMethod,omitempty"`
	ReferenceNumber *string         `json:"referenceNumber,omitempty"`
	StripePaymentID *string         `json:"stripePaymentId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// BookingListResult is one admin page plus the cursor for the next one.
type BookingListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor *string      `json:"nextCursor,omitempty"`
}

// NewBookingDTO builds the client payload from the persisted model.
func NewBookingDTO(booking *models.Booking) *BookingDTO {
	dto := &BookingDTO{
		ID:          booking.ID,
		UserID:      booking.UserID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		EventType:   booking.EventType,
		Venue:       booking.Venue,
		Notes:       booking.Notes,
		Items:       make([]BookingLineDTO, 0, len(booking.Items)),
		Payments:    make([]PaymentDTO, 0, len(booking.Payments)),
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
	if booking.User != nil {
		dto.User = &OwnerDTO{
			ID:    booking.User.ID,
			Name:  booking.User.Name,
			Email: booking.User.Email,
			Phone: booking.User.Phone,
		}
	}
	for _, line := range booking.Items {
		lineDTO := BookingLineDTO{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		}
		if line.Item != nil {
			lineDTO.ItemName = line.Item.Name
			lineDTO.PricePerDay = line.Item.PricePerDay
		}
		dto.Items = append(dto.Items, lineDTO)
	}
	for _, payment := range booking.Payments {
		paymentDTO := PaymentDTO{
			ID:              payment.ID,
			Amount:          payment.Amount,
			Status:          string(payment.Status),
			ReferenceNumber: payment.ReferenceNumber,
			StripePaymentID: payment.StripePaymentID,
			CreatedAt:       payment.CreatedAt,
		}
		if payment.PaymentMethod != nil {
			method := string(*payment.PaymentMethod)
			paymentDTO.PaymentMethod = &method
		}
		dto.Payments = append(dto.Payments, paymentDTO)
	}
	return dto
}
