package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/rejoiceevents/decor-backend/internal/payments"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
	"github.com/rejoiceevents/decor-backend/pkg/metrics"
)

// metadataBookingID is the payment-intent metadata key carrying the
// booking the money belongs to. Set when the intent is created.
const metadataBookingID = "bookingId"

type confirmationApplier interface {
	ApplyPaymentConfirmation(ctx context.Context, bookingID uuid.UUID, facts payments.ConfirmationFacts) (*payments.ConfirmationResult, error)
}

// Service maps verified Stripe events onto payment confirmations.
type Service struct {
	payments     confirmationApplier
	bookingStats *metrics.BookingMetrics
}

// NewService constructs the webhook event handler.
func NewService(paymentsSvc confirmationApplier, bookingStats *metrics.BookingMetrics) (*Service, error) {
	if paymentsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments service required")
	}
	return &Service{payments: paymentsSvc, bookingStats: bookingStats}, nil
}

// HandleEvent processes one verified Stripe event. Event types outside the
// payment flow are acknowledged without action so Stripe stops retrying.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.applyIntent(ctx, &intent)
	default:
		return nil
	}
}

func (s *Service) applyIntent(ctx context.Context, intent *stripe.PaymentIntent) error {
	if intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}
	rawBookingID := intent.Metadata[metadataBookingID]
	if rawBookingID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bookingId metadata missing")
	}
	bookingID, err := uuid.Parse(rawBookingID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "bookingId metadata is not a uuid")
	}

	card := enums.PaymentMethodCard
	result, err := s.payments.ApplyPaymentConfirmation(ctx, bookingID, payments.ConfirmationFacts{
		// Stripe reports minor units; the ledger stores major.
		Amount:          decimal.New(intent.Amount, -2),
		Status:          enums.PaymentStatusFull,
		Method:          &card,
		StripePaymentID: &intent.ID,
	})
	if err != nil {
		return err
	}
	if !result.Deduplicated {
		s.bookingStats.IncConfirmed("webhook")
	}
	return nil
}
