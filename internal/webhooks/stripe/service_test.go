package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/rejoiceevents/decor-backend/internal/payments"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

type stubApplier struct {
	calls     int
	bookingID uuid.UUID
	facts     payments.ConfirmationFacts
	result    *payments.ConfirmationResult
	err       error
}

func (s *stubApplier) ApplyPaymentConfirmation(_ context.Context, bookingID uuid.UUID, facts payments.ConfirmationFacts) (*payments.ConfirmationResult, error) {
	s.calls++
	s.bookingID = bookingID
	s.facts = facts
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &payments.ConfirmationResult{BookingID: bookingID, BookingStatus: string(enums.BookingStatusConfirmed)}, nil
}

func intentEvent(t *testing.T, intent stripe.PaymentIntent) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(intent)
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: stripe.EventTypePaymentIntentSucceeded,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventPaymentIntentSucceeded(t *testing.T) {
	applier := &stubApplier{}
	svc, err := NewService(applier, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	bookingID := uuid.New()
	event := intentEvent(t, stripe.PaymentIntent{
		ID:       "pi_abc",
		Amount:   450000,
		Metadata: map[string]string{"bookingId": bookingID.String()},
	})

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if applier.calls != 1 {
		t.Fatalf("expected one confirmation, got %d", applier.calls)
	}
	if applier.bookingID != bookingID {
		t.Fatal("wrong booking id extracted")
	}
	if !applier.facts.Amount.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("expected 4500 major units, got %s", applier.facts.Amount)
	}
	if applier.facts.StripePaymentID == nil || *applier.facts.StripePaymentID != "pi_abc" {
		t.Fatal("expected stripe payment id carried through")
	}
	if applier.facts.Method == nil || *applier.facts.Method != enums.PaymentMethodCard {
		t.Fatal("webhook confirmations record the card method")
	}
}

func TestHandleEventMissingBookingMetadata(t *testing.T) {
	applier := &stubApplier{}
	svc, _ := NewService(applier, nil)

	event := intentEvent(t, stripe.PaymentIntent{ID: "pi_nometa", Amount: 100})
	err := svc.HandleEvent(context.Background(), event)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if applier.calls != 0 {
		t.Fatal("nothing should be applied without a booking id")
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	applier := &stubApplier{}
	svc, _ := NewService(applier, nil)

	event := &stripe.Event{
		Type: stripe.EventTypeChargeRefunded,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unrelated events must be acknowledged, got %v", err)
	}
	if applier.calls != 0 {
		t.Fatal("unrelated events must not confirm anything")
	}
}

func TestHandleEventNil(t *testing.T) {
	svc, _ := NewService(&stubApplier{}, nil)
	err := svc.HandleEvent(context.Background(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = "1"
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func TestEventGuardClaimsOnce(t *testing.T) {
	guard, err := NewEventGuard(newMemoryStore(), time.Hour, "stripe_webhook")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil || seen {
		t.Fatalf("first claim must succeed, seen=%v err=%v", seen, err)
	}
	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil || !seen {
		t.Fatalf("second claim must report already seen, seen=%v err=%v", seen, err)
	}

	if err := guard.Release(context.Background(), "evt_1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil || seen {
		t.Fatalf("released event must be claimable again, seen=%v err=%v", seen, err)
	}
}
