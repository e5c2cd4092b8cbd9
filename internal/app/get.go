package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"zenget/internal/config"
	"zenget/internal/resolver"
	"zenget/internal/transfer"
	"zenget/pkg/types"
	"zenget/pkg/utils"
)

// GetOptions configures one download run
type GetOptions struct {
	RecordRef     string // Required: record ID or Zenodo URL
	FilterKeyword string // Optional: case-sensitive filename substring
	OutputDir     string // Optional: overrides the configured output root
	Workers       int    // Optional: overrides the configured worker count
}

// GetApp resolves a record and downloads its files with resume and retry
type GetApp struct {
	config   *config.Config
	resolver resolver.Resolver
	observer transfer.ProgressObserver
}

// NewGetApp creates a new download application
func NewGetApp(cfg *config.Config, res resolver.Resolver, observer transfer.ProgressObserver) *GetApp {
	return &GetApp{
		config:   cfg,
		resolver: res,
		observer: observer,
	}
}

// Run resolves the record, prepares the destination directory and drives
// every file to a terminal outcome. The summary is returned even when a
// storage failure aborts the run partway.
func (a *GetApp) Run(ctx context.Context, opts *GetOptions) (*types.RunSummary, error) {
	recordID, err := resolver.ParseRecordID(opts.RecordRef)
	if err != nil {
		return nil, err
	}

	log.Printf("Fetching metadata for record %s", recordID)
	record, err := a.resolver.Resolve(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve record: %w", err)
	}
	log.Printf("Found %d files in %q", len(record.Files), record.Title)

	outputRoot := a.config.Transfer.OutputDir
	if opts.OutputDir != "" {
		outputRoot = opts.OutputDir
	}
	destDir := filepath.Join(outputRoot, fmt.Sprintf("Zenodo_%s_%s", record.ID, utils.SanitizeTitle(record.Title)))
	if err := utils.EnsureDir(destDir); err != nil {
		return nil, err
	}
	log.Printf("Downloading into %s", destDir)

	workers := a.config.Transfer.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	fetcher := transfer.NewHTTPFetcher(transfer.FetcherOptions{
		ChunkSize:      a.config.Transfer.ChunkSize,
		AttemptTimeout: a.config.Transfer.AttemptTimeout,
		Observer:       a.observer,
	})
	scheduler := transfer.NewScheduler(fetcher, transfer.ExponentialBackoff{
		Initial: a.config.Transfer.RetryDelay,
		Max:     a.config.Transfer.MaxRetryDelay,
	}, a.observer)
	orchestrator := transfer.NewOrchestrator(scheduler, transfer.OrchestratorOptions{
		DestDir:       destDir,
		FilterKeyword: opts.FilterKeyword,
		Workers:       workers,
	})

	return orchestrator.Run(ctx, record.Files)
}
