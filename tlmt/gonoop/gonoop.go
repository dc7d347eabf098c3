// Package gonoop is the telemetry used when tracking is disabled or the
// analytics client could not be configured.
package gonoop

import (
	"context"

	"github.com/gosom/saas-funnel-demo/tlmt"
)

type service struct {
}

func New() tlmt.Telemetry {
	return &service{}
}

func (s *service) Send(context.Context, tlmt.Event) error {
	return nil
}

func (s *service) Identify(context.Context, string, map[string]any) error {
	return nil
}

func (s *service) Set(context.Context, string, map[string]any) error {
	return nil
}

func (s *service) Close() error {
	return nil
}
