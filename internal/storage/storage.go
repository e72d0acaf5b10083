// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"scholar_bot/internal/model"
)

// ErrAlreadySubscribed is reported when a (user, scholarship) pair already
// exists. The duplicate attempt is a no-op.
var ErrAlreadySubscribed = errors.New("already subscribed")

// ErrNotFound is reported when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	Subscribe(ctx context.Context, userID int64, index int) error
	Unsubscribe(ctx context.Context, userID int64, index int) (bool, error)
	ListSubscriptions(ctx context.Context, userID int64) ([]int, error)
	ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error)

	SaveProfile(ctx context.Context, p *model.UserProfile) error
	GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error)

	ToggleChecklistItem(ctx context.Context, userID int64, index int) (bool, error)
	ChecklistState(ctx context.Context, userID int64) (map[int]bool, error)

	Close() error
}
