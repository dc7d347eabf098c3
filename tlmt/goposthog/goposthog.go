package goposthog

import (
	"context"

	"github.com/posthog/posthog-go"

	"github.com/gosom/saas-funnel-demo/tlmt"
)

type service struct {
	client posthog.Client
}

func New(publicAPIKEY, endpointURL string) (tlmt.Telemetry, error) {
	client, err := posthog.NewWithConfig(publicAPIKEY, posthog.Config{Endpoint: endpointURL})
	if err != nil {
		return nil, err
	}

	ans := service{
		client: client,
	}

	return &ans, nil
}

func (s *service) Send(_ context.Context, event tlmt.Event) error {
	capture := posthog.Capture{
		DistinctId: event.DistinctID,
		Event:      event.Name,
		Properties: event.Properties,
	}

	if err := capture.Validate(); err != nil {
		return err
	}

	return s.client.Enqueue(capture)
}

func (s *service) Identify(_ context.Context, distinctID string, properties map[string]any) error {
	identify := posthog.Identify{
		DistinctId: distinctID,
		Properties: properties,
	}

	if err := identify.Validate(); err != nil {
		return err
	}

	return s.client.Enqueue(identify)
}

func (s *service) Set(_ context.Context, distinctID string, properties map[string]any) error {
	capture := posthog.Capture{
		DistinctId: distinctID,
		Event:      "$set",
		Properties: map[string]any{"$set": properties},
	}

	if err := capture.Validate(); err != nil {
		return err
	}

	return s.client.Enqueue(capture)
}

func (s *service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}

	return nil
}
