package webhook

import (
	"fmt"

	"github.com/stripe/stripe-go/v72"
	stripewebhook "github.com/stripe/stripe-go/v72/webhook"

	"corepay/internal/repositories"
)

// VerifyStripeEvent checks an inbound Stripe webhook against the signing
// secret stored on the matching integration and returns the parsed event.
func VerifyStripeEvent(repo repositories.IntegrationRepository, environment string, body []byte, sigHeader string) (stripe.Event, error) {
	integration, err := repo.GetIntegration("stripe", environment)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("no stripe integration for environment %q: %w", environment, err)
	}
	if integration.WebhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("stripe integration %q has no webhook secret", environment)
	}

	event, err := stripewebhook.ConstructEvent(body, sigHeader, integration.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("stripe signature verification failed: %w", err)
	}
	return event, nil
}
