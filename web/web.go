// Package web exposes the funnel over HTTP. Routing is just the trigger
// surface: every route does a session store read or mutation and emits the
// matching analytics events, nothing more. Responses are JSON; page layout
// belongs to whatever front end sits on top.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/gosom/saas-funnel-demo/funnel"
	"github.com/gosom/saas-funnel-demo/payment"
	"github.com/gosom/saas-funnel-demo/session"
)

type Server struct {
	e         *echo.Echo
	addr      string
	svc       *session.Service
	tracker   *funnel.Tracker
	processor *payment.Processor
	logger    *zap.Logger
}

type Config struct {
	Addr      string
	Debug     bool
	Service   *session.Service
	Tracker   *funnel.Tracker
	Processor *payment.Processor
	Logger    *zap.Logger
}

func New(cfg Config) (*Server, error) {
	e := echo.New()
	e.Debug = cfg.Debug
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := Server{
		e:         e,
		addr:      cfg.Addr,
		svc:       cfg.Service,
		tracker:   cfg.Tracker,
		processor: cfg.Processor,
		logger:    logger,
	}

	srv.routes()

	return &srv, nil
}

func (s *Server) routes() {
	s.e.GET("/", s.landing).Name = "landing"
	s.e.POST("/cta", s.ctaClicked).Name = "cta"

	s.e.GET("/signup", s.signupPage).Name = "signup"
	s.e.POST("/signup/started", s.signupStarted).Name = "signup-started"
	s.e.POST("/signup/abandoned", s.signupAbandoned).Name = "signup-abandoned"
	s.e.POST("/signup", s.signup).Name = "signup-submit"

	s.e.GET("/pricing", s.pricing).Name = "pricing"
	s.e.POST("/pricing/select", s.selectPlan).Name = "pricing-select"

	s.e.GET("/checkout", s.checkoutPage).Name = "checkout"
	s.e.POST("/checkout/method", s.paymentMethod).Name = "checkout-method"
	s.e.POST("/checkout/pay", s.pay).Name = "checkout-pay"

	s.e.GET("/dashboard", s.dashboard).Name = "dashboard"
	s.e.GET("/projects/new", s.newProjectPage).Name = "project-new"
	s.e.POST("/projects", s.createProject).Name = "project-create"
	s.e.GET("/projects/:id", s.viewProject).Name = "project-view"

	s.e.POST("/reset", s.reset).Name = "reset"
}

func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.e.Shutdown(sctx); err != nil {
			s.logger.Warn("shutdown", zap.Error(err))
		}
	}()

	err := s.e.Start(s.addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
