// Package funnel emits the marketing site's named analytics events. Every
// call is fire-and-forget: send errors are swallowed so tracking can never
// fail or block a user-facing flow.
package funnel

import (
	"context"
	"net/url"
	"sync"

	"github.com/gosom/saas-funnel-demo/session"
	"github.com/gosom/saas-funnel-demo/tlmt"
)

// Tracker carries the event catalog. Events are attributed to the anonymous
// process identity until Identify links them to a user id.
type Tracker struct {
	telemetry tlmt.Telemetry

	mu         sync.Mutex
	distinctID string
}

func NewTracker(telemetry tlmt.Telemetry) *Tracker {
	return &Tracker{
		telemetry:  telemetry,
		distinctID: tlmt.AnonymousID(),
	}
}

func (t *Tracker) capture(ctx context.Context, name string, props map[string]any) {
	_ = t.telemetry.Send(ctx, tlmt.NewEvent(t.currentID(), name, props))
}

func (t *Tracker) currentID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.distinctID
}

// Identify links subsequent events to userID and sets the base identity
// traits plus any extra properties.
func (t *Tracker) Identify(ctx context.Context, userID, email, name string, extra map[string]any) {
	t.mu.Lock()
	t.distinctID = userID
	t.mu.Unlock()

	props := map[string]any{
		"email": email,
		"name":  name,
	}

	for k, v := range extra {
		props[k] = v
	}

	_ = t.telemetry.Identify(ctx, userID, props)
}

// SetUserProperties merges properties onto the currently identified identity.
func (t *Tracker) SetUserProperties(ctx context.Context, properties map[string]any) {
	_ = t.telemetry.Set(ctx, t.currentID(), properties)
}

// LandingPageViewed captures the landing view with the attribution snapshot
// and referrer, and attaches the attribution to the identity.
func (t *Tracker) LandingPageViewed(ctx context.Context, pageURL *url.URL, referrer string) {
	source := MarketingSourceFromURL(pageURL)

	props := source.Properties()
	props["referrer"] = referrer

	t.capture(ctx, "landing_page_viewed", props)

	if personProps := source.PersonProperties(); len(personProps) > 0 {
		_ = t.telemetry.Set(ctx, t.currentID(), personProps)
	}
}

func (t *Tracker) CTAClicked(ctx context.Context, location string) {
	t.capture(ctx, "cta_clicked", map[string]any{"location": location})
}

func (t *Tracker) PricingLinkClicked(ctx context.Context) {
	t.capture(ctx, "pricing_link_clicked", nil)
}

func (t *Tracker) SignupPageViewed(ctx context.Context) {
	t.capture(ctx, "signup_page_viewed", nil)
}

func (t *Tracker) SignupFormStarted(ctx context.Context) {
	t.capture(ctx, "signup_form_started", nil)
}

func (t *Tracker) SignupFormCompleted(ctx context.Context, email, name string) {
	t.capture(ctx, "signup_form_completed", map[string]any{
		"email": email,
		"name":  name,
	})
}

func (t *Tracker) SignupFormAbandoned(ctx context.Context) {
	t.capture(ctx, "signup_form_abandoned", nil)
}

func (t *Tracker) PricingPageViewed(ctx context.Context) {
	t.capture(ctx, "pricing_page_viewed", nil)
}

func (t *Tracker) PlanViewed(ctx context.Context, planID, planName string) {
	t.capture(ctx, "plan_viewed", map[string]any{
		"plan_id":   planID,
		"plan_name": planName,
	})
}

func (t *Tracker) PlanSelected(ctx context.Context, plan session.Plan) {
	t.capture(ctx, "plan_selected", map[string]any{
		"plan_id":       plan.ID,
		"plan_name":     plan.Name,
		"plan_price":    plan.Price,
		"plan_interval": plan.Interval,
	})
}

func (t *Tracker) CheckoutInitiated(ctx context.Context, plan session.Plan) {
	t.capture(ctx, "checkout_initiated", map[string]any{
		"plan_id":    plan.ID,
		"plan_name":  plan.Name,
		"plan_price": plan.Price,
	})
}

func (t *Tracker) CheckoutPageViewed(ctx context.Context) {
	t.capture(ctx, "checkout_page_viewed", nil)
}

func (t *Tracker) PaymentMethodSelected(ctx context.Context, method string) {
	t.capture(ctx, "payment_method_selected", map[string]any{"method": method})
}

func (t *Tracker) PaymentCompleted(ctx context.Context, plan session.Plan) {
	t.capture(ctx, "payment_completed", map[string]any{
		"plan_id":       plan.ID,
		"plan_name":     plan.Name,
		"plan_price":    plan.Price,
		"plan_interval": plan.Interval,
	})
}

// PaymentFailed records a declined or errored payment. reason may be empty.
func (t *Tracker) PaymentFailed(ctx context.Context, plan session.Plan, reason string) {
	props := map[string]any{
		"plan_id":   plan.ID,
		"plan_name": plan.Name,
	}

	if reason != "" {
		props["reason"] = reason
	}

	t.capture(ctx, "payment_failed", props)
}

func (t *Tracker) DashboardViewed(ctx context.Context) {
	t.capture(ctx, "dashboard_viewed", nil)
}

func (t *Tracker) ProjectCreationStarted(ctx context.Context) {
	t.capture(ctx, "project_creation_started", nil)
}

func (t *Tracker) ProjectCreated(ctx context.Context, project session.Project) {
	t.capture(ctx, "project_created", map[string]any{
		"project_id":   project.ID,
		"project_name": project.Name,
	})
}

func (t *Tracker) ProjectViewed(ctx context.Context, projectID string) {
	t.capture(ctx, "project_viewed", map[string]any{"project_id": projectID})
}
