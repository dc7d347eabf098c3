package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service is the single source of truth for "who is signed in and what do
// they own". It keeps no state of its own: every operation reads or replaces
// the one persisted User record in the injected Store.
//
// Writes are whole-record overwrites with no version check, so concurrent
// writers against the same backend are last-write-wins.
type Service struct {
	store Store

	now   func() time.Time
	newID func() string
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CurrentUser returns the persisted user, or ok=false when no user exists.
// A missing key, an unreadable backend and a malformed payload all count as
// "no user": the session layer fails open rather than surfacing storage
// faults to the UI.
func (s *Service) CurrentUser(ctx context.Context) (User, bool) {
	data, err := s.store.Get(ctx, UserKey)
	if err != nil {
		return User{}, false
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, false
	}

	if err := user.Validate(); err != nil {
		return User{}, false
	}

	return user, true
}

// CreateUser persists a fresh User as the sole session user, overwriting any
// prior session.
func (s *Service) CreateUser(ctx context.Context, email, name string) (User, error) {
	if email == "" || name == "" {
		return User{}, ErrInvalidInput
	}

	user := User{
		ID:        "user_" + s.newID(),
		Email:     email,
		Name:      name,
		CreatedAt: s.now().UTC(),
		Projects:  []Project{},
	}

	if err := s.save(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// SetPlan returns and persists a copy of user with the plan attached and
// SubscribedAt stamped. The caller supplies the freshest known User; the
// service does not re-read before writing.
func (s *Service) SetPlan(ctx context.Context, user User, plan Plan) (User, error) {
	if err := plan.Validate(); err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	subscribedAt := s.now().UTC()

	updated := user
	updated.Plan = &plan
	updated.SubscribedAt = &subscribedAt

	if err := s.save(ctx, updated); err != nil {
		return User{}, err
	}

	return updated, nil
}

// AddProject returns and persists a copy of user with project appended at the
// tail. Projects are never deduplicated or checked for name uniqueness.
func (s *Service) AddProject(ctx context.Context, user User, project Project) (User, error) {
	if err := project.Validate(); err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	updated := user
	updated.Projects = make([]Project, 0, len(user.Projects)+1)
	updated.Projects = append(updated.Projects, user.Projects...)
	updated.Projects = append(updated.Projects, project)

	if err := s.save(ctx, updated); err != nil {
		return User{}, err
	}

	return updated, nil
}

// NewProject constructs a Project with a generated id and creation time. It
// does not persist anything; pass the result to AddProject.
func (s *Service) NewProject(name, description string) Project {
	return Project{
		ID:          "project_" + s.newID(),
		Name:        name,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
}

// Clear removes the persisted user entirely. A missing record is not an
// error.
func (s *Service) Clear(ctx context.Context) error {
	err := s.store.Delete(ctx, UserKey)
	if err != nil && err != ErrNotFound {
		return err
	}

	return nil
}

func (s *Service) save(ctx context.Context, user User) error {
	data, err := json.Marshal(&user)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, UserKey, data)
}
