// Package payment simulates a payment provider: a fixed processing delay
// followed by a random decline. There is no real gateway behind it.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gosom/saas-funnel-demo/session"
)

const (
	DefaultDelay       = 2 * time.Second
	DefaultFailureRate = 0.1
)

// ErrDeclined is the designed-in failure outcome. It is retryable and must
// be surfaced to the user, not treated as a system fault.
var ErrDeclined = errors.New("payment declined")

// Processor simulates charges. The zero value is not usable; construct with
// New or NewWithRand.
type Processor struct {
	delay       time.Duration
	failureRate float64

	mu  *sync.Mutex
	rng *rand.Rand
}

func New(delay time.Duration, failureRate float64) (*Processor, error) {
	return NewWithRand(delay, failureRate, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand accepts an explicit random source so the decline distribution
// is reproducible in tests.
func NewWithRand(delay time.Duration, failureRate float64, rng *rand.Rand) (*Processor, error) {
	if delay < 0 {
		return nil, fmt.Errorf("invalid delay %s", delay)
	}

	if failureRate < 0 || failureRate > 1 {
		return nil, fmt.Errorf("invalid failure rate %f", failureRate)
	}

	if rng == nil {
		return nil, errors.New("missing rand source")
	}

	ans := Processor{
		delay:       delay,
		failureRate: failureRate,
		mu:          &sync.Mutex{},
		rng:         rng,
	}

	return &ans, nil
}

// Charge suspends for the configured delay and then either succeeds or
// returns ErrDeclined. The delay honors ctx cancellation of the surrounding
// request, but no user-facing abort exists: callers do not expose a way to
// cancel an in-flight charge.
func (p *Processor) Charge(ctx context.Context, method string, plan session.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	if method == "" {
		return errors.New("missing payment method")
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if p.declines() {
		return ErrDeclined
	}

	return nil
}

func (p *Processor) declines() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rng.Float64() < p.failureRate
}
