package payment_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/saas-funnel-demo/payment"
	"github.com/gosom/saas-funnel-demo/session"
)

func proPlan() session.Plan {
	return session.Plan{ID: "pro", Name: "Pro", Price: 99, Interval: "month"}
}

func TestNewValidation(t *testing.T) {
	_, err := payment.New(-time.Second, 0.1)
	assert.Error(t, err)

	_, err = payment.New(0, -0.1)
	assert.Error(t, err)

	_, err = payment.New(0, 1.1)
	assert.Error(t, err)

	_, err = payment.NewWithRand(0, 0.1, nil)
	assert.Error(t, err)
}

func TestChargeValidation(t *testing.T) {
	processor, err := payment.New(0, 0)
	require.NoError(t, err)

	ctx := context.Background()

	err = processor.Charge(ctx, "card", session.Plan{})
	assert.Error(t, err)

	err = processor.Charge(ctx, "", proPlan())
	assert.Error(t, err)
}

func TestChargeZeroFailureRateAlwaysSucceeds(t *testing.T) {
	processor, err := payment.New(0, 0)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.NoError(t, processor.Charge(context.Background(), "card", proPlan()))
	}
}

func TestChargeFullFailureRateAlwaysDeclines(t *testing.T) {
	processor, err := payment.New(0, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.ErrorIs(t, processor.Charge(context.Background(), "card", proPlan()), payment.ErrDeclined)
	}
}

func TestDeclineDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))

	processor, err := payment.NewWithRand(0, 0.1, rng)
	require.NoError(t, err)

	const attempts = 1000

	declined := 0

	for i := 0; i < attempts; i++ {
		err := processor.Charge(context.Background(), "card", proPlan())
		if err != nil {
			require.ErrorIs(t, err, payment.ErrDeclined)

			declined++
		}
	}

	// 1000 draws at p=0.1: anything far outside ~100 means the simulation
	// is broken, not unlucky.
	assert.GreaterOrEqual(t, declined, 60)
	assert.LessOrEqual(t, declined, 140)
}

func TestChargeHonorsContextCancellation(t *testing.T) {
	processor, err := payment.New(time.Minute, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = processor.Charge(ctx, "card", proPlan())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestChargeWaitsForDelay(t *testing.T) {
	processor, err := payment.New(50*time.Millisecond, 0)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, processor.Charge(context.Background(), "card", proPlan()))

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
