// Package storage defines the persistence interface for the set of
// already-delivered post ids and its implementations.
package storage

import "context"

// Storage is the interface for loading and saving the seen-post set.
type Storage interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
	Close() error
}
