package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/pkg/db"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/metrics"
	pkgstripe "github.com/rejoiceevents/decor-backend/pkg/stripe"
)

// ConfirmationFacts carries everything one confirmation event knows.
// StripePaymentID set means the webhook path; nil means the manual path.
type ConfirmationFacts struct {
	Amount          decimal.Decimal
	Status          enums.PaymentStatus
	Method          *enums.PaymentMethod
	ReferenceNumber *string
	StripePaymentID *string
}

// ConfirmationResult reports how one confirmation settled.
type ConfirmationResult struct {
	BookingID     uuid.UUID `json:"bookingId"`
	BookingStatus string    `json:"bookingStatus"`
	PaymentID     uuid.UUID `json:"paymentId,omitempty"`
	Deduplicated  bool      `json:"deduplicated"`
}

// ManualInput is the admin's manual confirmation payload. Amount defaults
// to the booking's total when nil.
type ManualInput struct {
	Method          enums.PaymentMethod
	ReferenceNumber *string
	Amount          *decimal.Decimal
	Status          *enums.PaymentStatus
}

// IntentInput is the card-payment intent request. Amount defaults to the
// booking's total when nil.
type IntentInput struct {
	Amount       *decimal.Decimal
	ReceiptEmail string
}

// Service reconciles payments onto bookings. Both confirmation paths (admin
// manual and Stripe webhook) funnel through ApplyPaymentConfirmation.
type Service interface {
	ApplyPaymentConfirmation(ctx context.Context, bookingID uuid.UUID, facts ConfirmationFacts) (*ConfirmationResult, error)
	ConfirmManual(ctx context.Context, bookingID uuid.UUID, input ManualInput) (*ConfirmationResult, error)
	CreateIntent(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, bookingID uuid.UUID, input IntentInput) (*pkgstripe.PaymentIntent, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type intentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, bookingID, receiptEmail string) (*pkgstripe.PaymentIntent, error)
}

type service struct {
	repo         *Repository
	tx           txRunner
	stripeClient intentCreator
	bookingStats *metrics.BookingMetrics
}

// NewService constructs the payment reconciliation service.
func NewService(repo *Repository, tx txRunner, stripeClient intentCreator, bookingStats *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stripeClient == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	return &service{
		repo:         repo,
		tx:           tx,
		stripeClient: stripeClient,
		bookingStats: bookingStats,
	}, nil
}

// ApplyPaymentConfirmation settles one confirmation inside one transaction:
// dedupe, advance the booking to CONFIRMED, insert exactly one Payment.
// Replays (same processor id, or manual confirmation of an already
// CONFIRMED booking) succeed without writing anything.
func (s *service) ApplyPaymentConfirmation(ctx context.Context, bookingID uuid.UUID, facts ConfirmationFacts) (*ConfirmationResult, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if facts.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	if facts.Status == "" {
		facts.Status = enums.PaymentStatusFull
	}
	if !facts.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}

	var result ConfirmationResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.FindBookingForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
		}
		result.BookingID = booking.ID
		result.BookingStatus = string(booking.Status)

		if facts.StripePaymentID != nil {
			existing, err := repo.FindByStripePaymentID(ctx, *facts.StripePaymentID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dedupe payment lookup")
			}
			if existing != nil {
				result.PaymentID = existing.ID
				result.Deduplicated = true
				return nil
			}
		} else if booking.Status == enums.BookingStatusConfirmed {
			// Manual replay of a settled booking.
			result.Deduplicated = true
			return nil
		}

		switch booking.Status {
		case enums.BookingStatusPending:
			if err := repo.UpdateBookingStatus(ctx, booking.ID, string(enums.BookingStatusConfirmed)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm booking")
			}
			result.BookingStatus = string(enums.BookingStatusConfirmed)
		case enums.BookingStatusConfirmed:
			// Already settled; still record the confirmation below.
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot confirm payment on a %s booking", booking.Status)).
				WithDetails(map[string]string{"status": string(booking.Status)})
		}

		payment := &models.Payment{
			ID:              uuid.New(),
			BookingID:       booking.ID,
			Amount:          facts.Amount,
			Status:          facts.Status,
			PaymentMethod:   facts.Method,
			ReferenceNumber: facts.ReferenceNumber,
			StripePaymentID: facts.StripePaymentID,
		}
		if _, err := repo.CreatePayment(ctx, payment); err != nil {
			// A concurrent delivery of the same processor id won the insert.
			if facts.StripePaymentID != nil && db.IsUniqueViolation(err, "") {
				result.Deduplicated = true
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
		}
		result.PaymentID = payment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmManual is the trusted back-office path for bank transfers and
// cash. Zero-amount consultations may be force-confirmed.
func (s *service) ConfirmManual(ctx context.Context, bookingID uuid.UUID, input ManualInput) (*ConfirmationResult, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	amount := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	} else {
		booking, err := s.repo.FindBooking(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
		}
		amount = booking.TotalAmount
	}

	status := enums.PaymentStatusFull
	if input.Status != nil {
		status = *input.Status
	}
	method := input.Method

	result, err := s.ApplyPaymentConfirmation(ctx, bookingID, ConfirmationFacts{
		Amount:          amount,
		Status:          status,
		Method:          &method,
		ReferenceNumber: input.ReferenceNumber,
	})
	if err != nil {
		return nil, err
	}
	if !result.Deduplicated {
		s.bookingStats.IncConfirmed("manual")
	}
	return result, nil
}

// CreateIntent opens a card payment for the booking. Only the booking's
// owner or an admin may pay for it.
func (s *service) CreateIntent(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, bookingID uuid.UUID, input IntentInput) (*pkgstripe.PaymentIntent, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	if booking.UserID != actorID && actorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your booking")
	}
	if booking.Status != enums.BookingStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot open a payment for a %s booking", booking.Status))
	}

	amount := booking.TotalAmount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	amountMinor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	intent, err := s.stripeClient.CreatePaymentIntent(ctx, amountMinor, booking.ID.String(), input.ReceiptEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}
	return intent, nil
}
