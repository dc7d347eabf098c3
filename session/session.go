// Package session owns the demo's signed-in user: profile, subscription plan
// and project list, persisted as a single JSON value in a pluggable key-value
// store.
package session

import (
	"context"
	"errors"
	"time"
)

// UserKey is the well-known key the serialized User lives under.
const UserKey = "saas_demo_user"

// Store is the key-value backend a Service persists into. Implementations
// must return ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// User is the single resident account. Any mutation replaces the whole
// record; there is no field-level update.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"createdAt"`
	Plan         *Plan      `json:"plan,omitempty"`
	SubscribedAt *time.Time `json:"subscribedAt,omitempty"`
	Projects     []Project  `json:"projects"`
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("missing id")
	}

	if u.Email == "" {
		return errors.New("missing email")
	}

	if u.Name == "" {
		return errors.New("missing name")
	}

	if u.CreatedAt.IsZero() {
		return errors.New("missing created at")
	}

	return nil
}

// Plan is an entry of the fixed pricing catalog. Plans are never created or
// mutated at runtime.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
	Popular  bool     `json:"popular,omitempty"`
}

func (p *Plan) Validate() error {
	if p.ID == "" {
		return errors.New("missing id")
	}

	if p.Name == "" {
		return errors.New("missing name")
	}

	if p.Interval != "month" && p.Interval != "year" {
		return errors.New("invalid interval")
	}

	return nil
}

// Project belongs to exactly one User. Projects are created through the
// project flow, never mutated and never deleted.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Project) Validate() error {
	if p.ID == "" {
		return errors.New("missing id")
	}

	if p.Name == "" {
		return errors.New("missing name")
	}

	if p.CreatedAt.IsZero() {
		return errors.New("missing created at")
	}

	return nil
}
