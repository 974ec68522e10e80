package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rejoiceevents/decor-backend/api/middleware"
	"github.com/rejoiceevents/decor-backend/api/responses"
	"github.com/rejoiceevents/decor-backend/api/validators"
	bookingsvc "github.com/rejoiceevents/decor-backend/internal/bookings"
	paymentsvc "github.com/rejoiceevents/decor-backend/internal/payments"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
	"github.com/rejoiceevents/decor-backend/pkg/pagination"
)

const bookingDateLayout = "2006-01-02"

type bookingLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type createBookingRequest struct {
	StartDate string               `json:"startDate" validate:"required"`
	EndDate   string               `json:"endDate" validate:"required"`
	EventType *string              `json:"eventType,omitempty"`
	Venue     *string              `json:"venue,omitempty"`
	Notes     *string              `json:"notes,omitempty"`
	Items     []bookingLineRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type confirmPaymentRequest struct {
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
	ReferenceNumber *string          `json:"referenceNumber,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Status          *string          `json:"status,omitempty"`
}

type createIntentRequest struct {
	BookingID     string           `json:"bookingId" validate:"required"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	CustomerEmail string           `json:"customerEmail,omitempty" validate:"omitempty,email"`
}

// CreateBooking reserves a date range for the authenticated user.
func CreateBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// MyBookings lists the authenticated user's bookings, newest first.
func MyBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookings, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookings)
	}
}

// ListBookings returns one admin page of all bookings.
func ListBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		result, err := svc.ListAll(r.Context(), pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetBooking returns one booking; non-admins can only read their own.
func GetBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin) {
			userID, err := actorID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if booking.UserID != userID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another user"))
				return
			}
		}
		responses.WriteSuccess(w, booking)
	}
}

// UpdateBookingStatus moves a booking through its lifecycle (admin only).
func UpdateBookingStatus(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookingStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseBookingStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		booking, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// ConfirmBookingPayment records a manually verified payment (admin only).
func ConfirmBookingPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		id, err := parseBookingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := paymentsvc.ManualInput{
			Method:          method,
			ReferenceNumber: payload.ReferenceNumber,
			Amount:          payload.Amount,
		}
		if payload.Status != nil {
			status, err := enums.ParsePaymentStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ConfirmManual(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CreateBookingPaymentIntent opens a card payment for a booking.
func CreateBookingPaymentIntent(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role := enums.UserRole(middleware.RoleFromContext(r.Context()))

		var payload createIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := uuid.Parse(strings.TrimSpace(payload.BookingID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		intent, err := svc.CreateIntent(r.Context(), userID, role, bookingID, paymentsvc.IntentInput{
			Amount:       payload.Amount,
			ReceiptEmail: strings.TrimSpace(payload.CustomerEmail),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

func (p createBookingRequest) toCreateInput() (bookingsvc.CreateInput, error) {
	startDate, err := parseBookingDate(p.StartDate, "startDate")
	if err != nil {
		return bookingsvc.CreateInput{}, err
	}
	endDate, err := parseBookingDate(p.EndDate, "endDate")
	if err != nil {
		return bookingsvc.CreateInput{}, err
	}

	lines := make([]bookingsvc.LineInput, 0, len(p.Items))
	for _, line := range p.Items {
		itemID, err := uuid.Parse(strings.TrimSpace(line.ItemID))
		if err != nil {
			return bookingsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
		}
		lines = append(lines, bookingsvc.LineInput{ItemID: itemID, Quantity: line.Quantity})
	}

	return bookingsvc.CreateInput{
		StartDate: startDate,
		EndDate:   endDate,
		EventType: sanitizeFreeText(p.EventType, 120),
		Venue:     sanitizeFreeText(p.Venue, 255),
		Notes:     sanitizeFreeText(p.Notes, 2000),
		Items:     lines,
	}, nil
}

// sanitizeFreeText trims and caps optional free-text fields; an empty
// result collapses to nil so the column stays NULL.
func sanitizeFreeText(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	cleaned := validators.SanitizeString(*value, maxLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// parseBookingDate accepts a bare calendar date or a full RFC 3339 timestamp.
func parseBookingDate(raw, field string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	if t, err := time.Parse(bookingDateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return t.UTC(), nil
}

func parseBookingID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "bookingId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id")
	}
	return id, nil
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
