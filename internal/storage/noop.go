package storage

import "context"

// Noop implements Storage without persisting anything. It is used in
// development mode so test runs do not pollute the production cache.
type Noop struct{}

// Load returns an empty set.
func (Noop) Load(context.Context) ([]string, error) { return nil, nil }

// Save discards the set.
func (Noop) Save(context.Context, []string) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
