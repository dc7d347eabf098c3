// Package tlmt defines the one-way analytics capability the funnel emits
// into. Consumers depend only on the Telemetry interface, never on the
// concrete analytics client.
package tlmt

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"
)

var (
	once     sync.Once
	identity processIdentity
)

// Event is a named, fire-and-forget analytics event with a flat property
// payload.
type Event struct {
	DistinctID string
	Name       string
	Properties map[string]any
}

// NewEvent builds an Event for distinctID, merging props over the default
// process context.
func NewEvent(distinctID, name string, props map[string]any) Event {
	ev := Event{
		DistinctID: distinctID,
		Name:       name,
		Properties: defaultContext(),
	}

	for k, v := range props {
		ev.Properties[k] = v
	}

	return ev
}

// Telemetry sends events and identity updates to an analytics sink. All
// implementations are best-effort: a returned error is informational and
// must never block a user-facing flow.
type Telemetry interface {
	Send(ctx context.Context, event Event) error
	Identify(ctx context.Context, distinctID string, properties map[string]any) error
	Set(ctx context.Context, distinctID string, properties map[string]any) error
	Close() error
}

type processIdentity struct {
	id   string
	meta map[string]any
}

// AnonymousID is the distinct id used for events emitted before a user is
// identified. It is stable for the lifetime of the process.
func AnonymousID() string {
	return generateIdentity().id
}

func generateIdentity() processIdentity {
	once.Do(func() {
		identity.id = uuid.New().String()
		identity.meta = make(map[string]any)

		info, err := host.Info()
		if err == nil {
			identity.meta["os"] = info.OS
			identity.meta["platform"] = info.Platform
			identity.meta["platform_family"] = info.PlatformFamily
			identity.meta["platform_version"] = info.PlatformVersion
		}
	})

	return identity
}

func defaultContext() map[string]any {
	meta := generateIdentity().meta

	ans := make(map[string]any, len(meta))
	for k, v := range meta {
		ans[k] = v
	}

	return ans
}
