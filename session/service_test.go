package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/saas-funnel-demo/session"
	"github.com/gosom/saas-funnel-demo/session/memory"
)

func newService() *session.Service {
	return session.NewService(memory.New())
}

func TestCreateUserThenCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "a@x.com", fetched.Email)
	assert.Equal(t, "Ann", fetched.Name)
	assert.Empty(t, fetched.Projects)
	assert.Nil(t, fetched.Plan)
	assert.Nil(t, fetched.SubscribedAt)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
}

func TestCreateUserOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateUser(ctx, "first@x.com", "First")
	require.NoError(t, err)

	second, err := svc.CreateUser(ctx, "second@x.com", "Second")
	require.NoError(t, err)

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, second.ID, fetched.ID)
	assert.Equal(t, "second@x.com", fetched.Email)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateUser(ctx, "", "Ann")
	assert.ErrorIs(t, err, session.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, session.ErrInvalidInput)

	_, ok := svc.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestSetPlan(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	plan := session.Plan{ID: "pro", Name: "Pro", Price: 99, Interval: "month"}

	updated, err := svc.SetPlan(ctx, user, plan)
	require.NoError(t, err)
	require.NotNil(t, updated.Plan)
	assert.Equal(t, "pro", updated.Plan.ID)
	require.NotNil(t, updated.SubscribedAt)

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	require.NotNil(t, fetched.Plan)
	assert.Equal(t, "pro", fetched.Plan.ID)
	require.NotNil(t, fetched.SubscribedAt)
	assert.False(t, fetched.SubscribedAt.IsZero())
}

func TestSetPlanDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	plan := session.Plan{ID: "starter", Name: "Starter", Price: 29, Interval: "month"}

	_, err = svc.SetPlan(ctx, user, plan)
	require.NoError(t, err)

	assert.Nil(t, user.Plan)
	assert.Nil(t, user.SubscribedAt)
}

func TestSetPlanRejectsInvalidPlan(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	_, err = svc.SetPlan(ctx, user, session.Plan{ID: "x", Name: "X", Interval: "weekly"})
	assert.ErrorIs(t, err, session.ErrInvalidInput)

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	assert.Nil(t, fetched.Plan)
}

func TestAddProjectPreservesOrder(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	p1 := svc.NewProject("P1", "first")
	p2 := svc.NewProject("P2", "second")

	user, err = svc.AddProject(ctx, user, p1)
	require.NoError(t, err)

	user, err = svc.AddProject(ctx, user, p2)
	require.NoError(t, err)

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	require.Len(t, fetched.Projects, 2)
	assert.Equal(t, p1.ID, fetched.Projects[0].ID)
	assert.Equal(t, p2.ID, fetched.Projects[1].ID)
}

func TestAddProjectAllowsDuplicateNames(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	user, err = svc.AddProject(ctx, user, svc.NewProject("Demo", "one"))
	require.NoError(t, err)

	user, err = svc.AddProject(ctx, user, svc.NewProject("Demo", "two"))
	require.NoError(t, err)

	require.Len(t, user.Projects, 2)
	assert.NotEqual(t, user.Projects[0].ID, user.Projects[1].ID)
}

func TestCurrentUserIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	first, ok := svc.CurrentUser(ctx)
	require.True(t, ok)

	second, ok := svc.CurrentUser(ctx)
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))

	_, ok := svc.CurrentUser(ctx)
	assert.False(t, ok)

	// clearing an already empty session is not an error
	require.NoError(t, svc.Clear(ctx))
}

func TestMalformedStoredPayload(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := session.NewService(store)

	cases := []struct {
		name    string
		payload []byte
	}{
		{name: "truncated json", payload: []byte(`{"id":"user_1","email":`)},
		{name: "not json at all", payload: []byte("hello world")},
		{name: "wrong shape", payload: []byte(`[1,2,3]`)},
		{name: "valid json missing fields", payload: []byte(`{"id":"user_1"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, session.UserKey, tc.payload))

			_, ok := svc.CurrentUser(ctx)
			assert.False(t, ok)
		})
	}
}

func TestFullFunnelScenario(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	user, err := svc.CreateUser(ctx, "a@x.com", "Ann")
	require.NoError(t, err)

	plan := session.Plan{ID: "pro", Name: "Pro", Price: 99, Interval: "month"}

	user, err = svc.SetPlan(ctx, user, plan)
	require.NoError(t, err)

	project := svc.NewProject("Demo", "desc desc desc")

	user, err = svc.AddProject(ctx, user, project)
	require.NoError(t, err)

	fetched, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	require.NotNil(t, fetched.Plan)
	assert.Equal(t, "pro", fetched.Plan.ID)
	require.Len(t, fetched.Projects, 1)
	assert.Equal(t, "Demo", fetched.Projects[0].Name)
}
