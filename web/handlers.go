package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gosom/saas-funnel-demo/payment"
	"github.com/gosom/saas-funnel-demo/plans"
	"github.com/gosom/saas-funnel-demo/session"
)

// The handlers reproduce the original funnel pages: each one reads or
// mutates the session and emits its tracked events with call-site sequencing
// only. A store write and its event are deliberately uncoordinated.

func (s *Server) landing(c echo.Context) error {
	s.tracker.LandingPageViewed(c.Request().Context(), c.Request().URL, c.Request().Referer())

	return c.JSON(http.StatusOK, echo.Map{"page": "landing"})
}

type ctaRequest struct {
	Location string `json:"location"`
}

func (s *Server) ctaClicked(c echo.Context) error {
	var req ctaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.tracker.CTAClicked(c.Request().Context(), req.Location)

	return c.JSON(http.StatusOK, echo.Map{"next": "/signup"})
}

func (s *Server) signupPage(c echo.Context) error {
	s.tracker.SignupPageViewed(c.Request().Context())

	return c.JSON(http.StatusOK, echo.Map{"page": "signup"})
}

func (s *Server) signupStarted(c echo.Context) error {
	s.tracker.SignupFormStarted(c.Request().Context())

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) signupAbandoned(c echo.Context) error {
	s.tracker.SignupFormAbandoned(c.Request().Context())

	return c.NoContent(http.StatusNoContent)
}

type signupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()

	user, err := s.svc.CreateUser(ctx, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, session.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "email and name are required")
		}

		s.logger.Error("create user", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, "could not create account")
	}

	s.tracker.Identify(ctx, user.ID, user.Email, user.Name, map[string]any{
		"signup_date": user.CreatedAt,
	})
	s.tracker.SignupFormCompleted(ctx, user.Email, user.Name)

	return c.JSON(http.StatusCreated, echo.Map{"user": user, "next": "/pricing"})
}

func (s *Server) pricing(c echo.Context) error {
	s.tracker.PricingPageViewed(c.Request().Context())

	return c.JSON(http.StatusOK, echo.Map{"plans": plans.All()})
}

type selectPlanRequest struct {
	PlanID string `json:"plan_id"`
}

func (s *Server) selectPlan(c echo.Context) error {
	var req selectPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	plan, ok := plans.Find(req.PlanID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown plan")
	}

	ctx := c.Request().Context()

	s.tracker.PlanSelected(ctx, plan)
	s.tracker.CheckoutInitiated(ctx, plan)

	return c.JSON(http.StatusOK, echo.Map{"next": "/checkout?plan=" + plan.ID})
}

func (s *Server) checkoutPage(c echo.Context) error {
	ctx := c.Request().Context()

	s.tracker.CheckoutPageViewed(ctx)

	if _, ok := s.svc.CurrentUser(ctx); !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	plan, ok := plans.Find(c.QueryParam("plan"))
	if !ok {
		return c.Redirect(http.StatusFound, "/pricing")
	}

	return c.JSON(http.StatusOK, echo.Map{"plan": plan})
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

func (s *Server) paymentMethod(c echo.Context) error {
	var req paymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s.tracker.PaymentMethodSelected(c.Request().Context(), req.Method)

	return c.NoContent(http.StatusNoContent)
}

type payRequest struct {
	PlanID string `json:"plan_id"`
	Method string `json:"method"`
}

// pay runs the simulated charge. On decline the stored user is left
// untouched: the plan is attached only after the charge succeeds.
func (s *Server) pay(c echo.Context) error {
	var req payRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()

	user, ok := s.svc.CurrentUser(ctx)
	if !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	plan, ok := plans.Find(req.PlanID)
	if !ok {
		return c.Redirect(http.StatusFound, "/pricing")
	}

	method := req.Method
	if method == "" {
		method = "card"
	}

	if err := s.processor.Charge(ctx, method, plan); err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			s.tracker.PaymentFailed(ctx, plan, "Payment processing failed")

			return c.JSON(http.StatusPaymentRequired, echo.Map{
				"error": "Payment failed. Please try again.",
			})
		}

		s.tracker.PaymentFailed(ctx, plan, "Unexpected error")
		s.logger.Error("charge", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, "An error occurred. Please try again.")
	}

	updated, err := s.svc.SetPlan(ctx, user, plan)
	if err != nil {
		s.logger.Error("set plan", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, "could not save subscription")
	}

	s.tracker.PaymentCompleted(ctx, plan)

	return c.JSON(http.StatusOK, echo.Map{"user": updated, "next": "/dashboard"})
}

func (s *Server) dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	s.tracker.DashboardViewed(ctx)

	user, ok := s.svc.CurrentUser(ctx)
	if !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	if user.Plan == nil {
		return c.Redirect(http.StatusFound, "/pricing")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (s *Server) newProjectPage(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := s.svc.CurrentUser(ctx)
	if !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	if user.Plan == nil {
		return c.Redirect(http.StatusFound, "/pricing")
	}

	s.tracker.ProjectCreationStarted(ctx)

	return c.JSON(http.StatusOK, echo.Map{"page": "project-new"})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) createProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()

	user, ok := s.svc.CurrentUser(ctx)
	if !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	if user.Plan == nil {
		return c.Redirect(http.StatusFound, "/pricing")
	}

	project := s.svc.NewProject(req.Name, req.Description)

	updated, err := s.svc.AddProject(ctx, user, project)
	if err != nil {
		if errors.Is(err, session.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "project name is required")
		}

		s.logger.Error("add project", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, "could not save project")
	}

	s.tracker.SetUserProperties(ctx, map[string]any{
		"projects_count": len(updated.Projects),
		"has_projects":   true,
	})
	s.tracker.ProjectCreated(ctx, project)

	return c.JSON(http.StatusCreated, echo.Map{"project": project, "next": "/dashboard"})
}

func (s *Server) viewProject(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := s.svc.CurrentUser(ctx)
	if !ok {
		return c.Redirect(http.StatusFound, "/signup")
	}

	id := c.Param("id")

	for _, project := range user.Projects {
		if project.ID == id {
			s.tracker.ProjectViewed(ctx, project.ID)

			return c.JSON(http.StatusOK, echo.Map{"project": project})
		}
	}

	return echo.NewHTTPError(http.StatusNotFound, "project not found")
}

func (s *Server) reset(c echo.Context) error {
	if err := s.svc.Clear(c.Request().Context()); err != nil {
		s.logger.Error("clear session", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, "could not reset session")
	}

	return c.NoContent(http.StatusNoContent)
}
