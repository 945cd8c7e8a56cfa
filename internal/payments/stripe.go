// Package payments wraps the Stripe client behind a small interface so
// handlers can be tested without network access.
package payments

import (
	"context"
	"errors"
	"math"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrInvalidAmount = errors.New("payments: amount must be positive")

// StripeBridge creates payment intents against the Stripe API. Amounts
// arrive in major units (dollars) and are converted to the minor units
// Stripe expects.
type StripeBridge struct {
	api *client.API
}

func NewStripeBridge(secretKey string) *StripeBridge {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeBridge{api: api}
}

func (b *StripeBridge) CreateIntent(ctx context.Context, amount float64, currency string) (string, error) {
	minor := MinorUnits(amount)

	if minor <= 0 {
		return "", ErrInvalidAmount
	}

	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := b.api.PaymentIntents.New(params)

	if err != nil {
		return "", err
	}

	return intent.ClientSecret, nil
}

// MinorUnits converts a major-unit amount to integer cents. Rounding, not
// truncation: 19.99 stored as 19.990000000000002 must still come out 1999.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
