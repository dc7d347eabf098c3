package plans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/saas-funnel-demo/plans"
)

func TestCatalog(t *testing.T) {
	all := plans.All()
	require.Len(t, all, 3)

	assert.Equal(t, "starter", all[0].ID)
	assert.Equal(t, "pro", all[1].ID)
	assert.Equal(t, "enterprise", all[2].ID)

	for _, p := range all {
		assert.NoError(t, p.Validate())
		assert.Equal(t, "month", p.Interval)
		assert.NotEmpty(t, p.Features)
	}
}

func TestFind(t *testing.T) {
	pro, ok := plans.Find("pro")
	require.True(t, ok)
	assert.Equal(t, "Pro", pro.Name)
	assert.Equal(t, 99, pro.Price)
	assert.True(t, pro.Popular)

	_, ok = plans.Find("nonexistent")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	all := plans.All()
	all[1].Price = 1

	again := plans.All()
	assert.Equal(t, 99, again[1].Price)
}
