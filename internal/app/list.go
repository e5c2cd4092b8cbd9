package app

import (
	"context"
	"fmt"

	"zenget/internal/resolver"
	"zenget/pkg/types"
)

// ListApp resolves a record without downloading anything
type ListApp struct {
	resolver resolver.Resolver
}

// NewListApp creates a new listing application
func NewListApp(res resolver.Resolver) *ListApp {
	return &ListApp{resolver: res}
}

// Run resolves the record reference and returns its metadata
func (a *ListApp) Run(ctx context.Context, recordRef string) (*types.Record, error) {
	recordID, err := resolver.ParseRecordID(recordRef)
	if err != nil {
		return nil, err
	}

	record, err := a.resolver.Resolve(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve record: %w", err)
	}
	return record, nil
}
