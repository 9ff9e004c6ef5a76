package services

import (
	"context"
	"math"
	"strconv"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// CheckoutSession is the slice of payment-processor session state the fund
// flow needs.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	TransactionID string
	AmountTotal   int64
	Metadata      map[string]string
}

type StripeCheckout struct {
	siteDomain string
}

func NewStripeCheckout(secretKey, siteDomain string) *StripeCheckout {
	stripe.Key = secretKey
	return &StripeCheckout{siteDomain: siteDomain}
}

// CreateSession opens a Stripe Checkout session for a one-off card payment
// of the given amount in major currency units. Payer identity travels in
// the session metadata so confirmation can recover it.
func (s *StripeCheckout) CreateSession(ctx context.Context, amount float64, email, displayName string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Blood Donation Fund"),
						Description: stripe.String("Donated by " + displayName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(email),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(s.siteDomain + "/fund-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.siteDomain + "/fund-cancelled"),
	}
	params.AddMetadata("displayName", displayName)
	params.AddMetadata("email", email)
	params.AddMetadata("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// RetrieveSession fetches session state from Stripe for payment
// verification.
func (s *StripeCheckout) RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error) {
	sess, err := session.Get(id, &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, err
	}

	transactionID := ""
	if sess.PaymentIntent != nil {
		transactionID = sess.PaymentIntent.ID
	}

	return &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		TransactionID: transactionID,
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}, nil
}
