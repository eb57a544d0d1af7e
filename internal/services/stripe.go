package services

import (
	"os"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeService struct {
	publicKey     string
	secretKey     string
	webhookSecret string
}

func NewStripeService(publicKey, secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		publicKey:     publicKey,
		secretKey:     secretKey,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

// CreateCheckoutSession opens a subscription checkout for a plan upgrade.
// The target tier travels in the metadata and comes back on the webhook.
func (s *StripeService) CreateCheckoutSession(userID, priceID, plan string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL") + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		ClientReferenceID: stripe.String(userID),
		Metadata: map[string]string{
			"plan": plan,
		},
	}

	return session.New(params)
}

func (s *StripeService) HandleWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
}
