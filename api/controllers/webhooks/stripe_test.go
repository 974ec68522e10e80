package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	stripewebhook "github.com/rejoiceevents/decor-backend/internal/webhooks/stripe"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

func TestStripeWebhookSuccessAndIdempotent(t *testing.T) {
	payload := buildEventPayload(t)
	service := &fakeEventHandler{}
	guard := newTestGuard(t)
	handler := Stripe(service, &fakeVerifier{}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected service called once, got %d", service.calls)
	}

	// Replay the same event.
	req2 := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req2.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d (%s)", rec2.Code, rec2.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected duplicate not processed, call count %d", service.calls)
	}
}

func TestStripeWebhookInvalidSignature(t *testing.T) {
	payload := buildEventPayload(t)
	service := &fakeEventHandler{}
	handler := Stripe(service, &fakeVerifier{err: errors.New("signature mismatch")}, newTestGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=invalid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid signature, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatal("service should not be invoked on invalid signature")
	}
}

func TestStripeWebhookMissingSignatureHeader(t *testing.T) {
	service := &fakeEventHandler{}
	handler := Stripe(service, &fakeVerifier{}, newTestGuard(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(buildEventPayload(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without signature header, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatal("service should not be invoked without a signature")
	}
}

func TestStripeWebhookHandlerFailureReleasesGuard(t *testing.T) {
	payload := buildEventPayload(t)
	service := &fakeEventHandler{err: pkgerrors.New(pkgerrors.CodeInternal, "apply failed")}
	guard := newTestGuard(t)
	handler := Stripe(service, &fakeVerifier{}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on handler failure, got %d", rec.Code)
	}

	// The guard slot must be free again so a redelivery can retry.
	service.err = nil
	req2 := httptest.NewRequest(http.MethodPost, "/api/bookings/webhook", bytes.NewReader(payload))
	req2.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected retry to succeed, got %d (%s)", rec2.Code, rec2.Body.String())
	}
	if service.calls != 2 {
		t.Fatalf("expected retry to reach the service, call count %d", service.calls)
	}
}

func buildEventPayload(t *testing.T) []byte {
	t.Helper()
	intent := &stripe.PaymentIntent{
		ID:     "pi_test_1",
		Amount: 450000,
		Metadata: map[string]string{
			"bookingId": uuid.NewString(),
		},
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	event := &stripe.Event{
		ID:     "evt_test_1",
		Type:   stripe.EventTypePaymentIntentSucceeded,
		Object: "event",
		Data: &stripe.EventData{
			Raw: raw,
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func newTestGuard(t *testing.T) *stripewebhook.EventGuard {
	t.Helper()
	guard, err := stripewebhook.NewEventGuard(newInMemoryStore(), time.Minute, "stripe_webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard
}

type fakeEventHandler struct {
	calls int
	err   error
}

func (f *fakeEventHandler) HandleEvent(ctx context.Context, event *stripe.Event) error {
	f.calls++
	return f.err
}

// fakeVerifier skips HMAC checking and just decodes the payload.
type fakeVerifier struct {
	err error
}

func (v *fakeVerifier) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	if v.err != nil {
		return stripe.Event{}, v.err
	}
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, err
	}
	return event, nil
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{data: make(map[string]string)}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("rejoice:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
