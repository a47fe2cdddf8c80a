// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"homework_bot/internal/model"
)

// Storage is the interface for the status change journal.
type Storage interface {
	RecordChange(ctx context.Context, change *model.StatusChange) error
	ListChanges(ctx context.Context, limit int) ([]model.StatusChange, error)

	Close() error
}
