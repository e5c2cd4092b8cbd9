package resolver

import (
	"context"

	"zenget/pkg/types"
)

// Resolver turns a record identifier into the metadata needed to download
// its files. The transfer engine only depends on this shape, not on how
// the metadata was obtained.
type Resolver interface {
	Resolve(ctx context.Context, recordID string) (*types.Record, error)
}
