package stripe

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/rejoiceevents/decor-backend/pkg/config"
	"github.com/rejoiceevents/decor-backend/pkg/logger"
)

// MockClientSecret is the sentinel client secret returned in mock mode so
// the storefront payment flow can proceed without live credentials.
const MockClientSecret = "mock_secret"

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errSecretRequired   = errors.New("stripe webhook secret is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q, %q or %q",
		config.StripeEnvTest, config.StripeEnvLive, config.StripeEnvMock)
)

// PaymentIntent is the subset of Stripe's payment intent the API exposes.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}

// Client wraps Stripe's API plus env-specific metadata. In mock mode no
// network calls are made and intents are fabricated locally.
type Client struct {
	environment   string
	signingSecret string
}

// NewClient initializes Stripe once with the configured secrets and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	if env == config.StripeEnvMock {
		if logg != nil {
			logg.Warn(ctx, "stripe client running in mock mode, no live payments possible")
		}
		return &Client{environment: env}, nil
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	signingSecret := strings.TrimSpace(cfg.WebhookSecret)
	if signingSecret == "" {
		return nil, errSecretRequired
	}
	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		environment:   env,
		signingSecret: signingSecret,
	}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// IsMock reports whether intents are fabricated locally.
func (c *Client) IsMock() bool {
	return c != nil && c.environment == config.StripeEnvMock
}

// CreatePaymentIntent opens a card payment for the given minor-unit amount,
// tagging it with the booking id so the webhook can correlate back.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, bookingID, receiptEmail string) (*PaymentIntent, error) {
	if c == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountMinor)
	}
	if bookingID == "" {
		return nil, errors.New("booking id is required")
	}

	if c.IsMock() {
		return mockIntent()
	}

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:  ctx,
			Metadata: map[string]string{"bookingId": bookingID},
		},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if receiptEmail != "" {
		params.ReceiptEmail = stripe.String(receiptEmail)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}, nil
}

// VerifyEvent checks the webhook signature against the signing secret and
// returns the parsed event. Fails closed on any mismatch.
func (c *Client) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	if c == nil {
		return stripe.Event{}, errors.New("stripe client not initialized")
	}
	if c.signingSecret == "" {
		return stripe.Event{}, errSecretRequired
	}
	return webhook.ConstructEvent(payload, signatureHeader, c.signingSecret)
}

func mockIntent() (*PaymentIntent, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("generate mock intent id: %w", err)
	}
	return &PaymentIntent{
		ID:           "pi_mock_" + hex.EncodeToString(buf[:]),
		ClientSecret: MockClientSecret,
		Status:       "requires_payment_method",
	}, nil
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = config.StripeEnvMock
	}
	switch env {
	case config.StripeEnvTest, config.StripeEnvLive, config.StripeEnvMock:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case config.StripeEnvTest:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", env)
	case config.StripeEnvLive:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", env)
	default:
		return errInvalidStripeEnv
	}
}
