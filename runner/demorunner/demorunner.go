// Package demorunner walks the full funnel once without a browser: landing
// view with attribution, signup, plan selection, simulated checkout (with
// retries on decline) and project creation, against the configured backend.
package demorunner

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/gosom/saas-funnel-demo/funnel"
	"github.com/gosom/saas-funnel-demo/payment"
	"github.com/gosom/saas-funnel-demo/plans"
	"github.com/gosom/saas-funnel-demo/runner"
	"github.com/gosom/saas-funnel-demo/session"
)

const maxPaymentAttempts = 5

type demorunner struct {
	svc       *session.Service
	tracker   *funnel.Tracker
	processor *payment.Processor
	logger    *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	store, err := runner.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	processor, err := payment.New(cfg.PaymentDelay, cfg.FailureRate)
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	ans := demorunner{
		svc:       session.NewService(store),
		tracker:   funnel.NewTracker(runner.Telemetry()),
		processor: processor,
		logger:    logger,
	}

	return &ans, nil
}

func (d *demorunner) Run(ctx context.Context) error {
	landing, _ := url.Parse("https://example.com/?utm_source=newsletter&utm_medium=email&utm_campaign=launch")

	d.tracker.LandingPageViewed(ctx, landing, "https://news.ycombinator.com/")
	d.tracker.CTAClicked(ctx, "hero")
	d.tracker.SignupPageViewed(ctx)
	d.tracker.SignupFormStarted(ctx)

	user, err := d.svc.CreateUser(ctx, "ann@example.com", "Ann")
	if err != nil {
		return err
	}

	d.tracker.Identify(ctx, user.ID, user.Email, user.Name, map[string]any{
		"signup_date": user.CreatedAt,
	})
	d.tracker.SignupFormCompleted(ctx, user.Email, user.Name)
	d.logger.Info("signed up", zap.String("user_id", user.ID))

	d.tracker.PricingPageViewed(ctx)

	plan, ok := plans.Find("pro")
	if !ok {
		return fmt.Errorf("pro plan missing from catalog")
	}

	d.tracker.PlanViewed(ctx, plan.ID, plan.Name)
	d.tracker.PlanSelected(ctx, plan)
	d.tracker.CheckoutInitiated(ctx, plan)
	d.tracker.CheckoutPageViewed(ctx)
	d.tracker.PaymentMethodSelected(ctx, "card")

	user, err = d.checkout(ctx, user, plan)
	if err != nil {
		return err
	}

	d.logger.Info("subscribed", zap.String("plan", plan.ID))

	d.tracker.DashboardViewed(ctx)
	d.tracker.ProjectCreationStarted(ctx)

	project := d.svc.NewProject("Demo", "A first demo project")

	user, err = d.svc.AddProject(ctx, user, project)
	if err != nil {
		return err
	}

	d.tracker.SetUserProperties(ctx, map[string]any{
		"projects_count": len(user.Projects),
		"has_projects":   true,
	})
	d.tracker.ProjectCreated(ctx, project)
	d.tracker.ProjectViewed(ctx, project.ID)

	d.logger.Info("funnel complete",
		zap.String("user_id", user.ID),
		zap.String("plan", user.Plan.ID),
		zap.Int("projects", len(user.Projects)),
	)

	return nil
}

// checkout retries the simulated charge until it succeeds, mirroring a user
// pressing pay again after a decline. The plan is attached only on success.
func (d *demorunner) checkout(ctx context.Context, user session.User, plan session.Plan) (session.User, error) {
	for attempt := 1; attempt <= maxPaymentAttempts; attempt++ {
		err := d.processor.Charge(ctx, "card", plan)
		if err == nil {
			d.tracker.PaymentCompleted(ctx, plan)

			return d.svc.SetPlan(ctx, user, plan)
		}

		if err == payment.ErrDeclined {
			d.tracker.PaymentFailed(ctx, plan, "Payment processing failed")
			d.logger.Warn("payment declined, retrying", zap.Int("attempt", attempt))

			continue
		}

		d.tracker.PaymentFailed(ctx, plan, "Unexpected error")

		return session.User{}, err
	}

	return session.User{}, fmt.Errorf("payment declined %d times", maxPaymentAttempts)
}

func (d *demorunner) Close(context.Context) error {
	_ = d.logger.Sync()

	return nil
}
