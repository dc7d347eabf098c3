// Package webrunner wires the session store, tracker and simulated payments
// into the web server.
package webrunner

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gosom/saas-funnel-demo/funnel"
	"github.com/gosom/saas-funnel-demo/payment"
	"github.com/gosom/saas-funnel-demo/runner"
	"github.com/gosom/saas-funnel-demo/session"
	"github.com/gosom/saas-funnel-demo/web"
)

type webrunner struct {
	srv    *web.Server
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	store, err := runner.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	processor, err := payment.New(cfg.PaymentDelay, cfg.FailureRate)
	if err != nil {
		return nil, err
	}

	srv, err := web.New(web.Config{
		Addr:      cfg.Addr,
		Debug:     cfg.Debug,
		Service:   session.NewService(store),
		Tracker:   funnel.NewTracker(runner.Telemetry()),
		Processor: processor,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	ans := webrunner{
		srv:    srv,
		logger: logger,
	}

	return &ans, nil
}

func (w *webrunner) Run(ctx context.Context) error {
	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return w.srv.Start(ctx)
	})

	return egroup.Wait()
}

func (w *webrunner) Close(context.Context) error {
	_ = w.logger.Sync()

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
