package transfer

import (
	"context"

	"zenget/pkg/types"
)

// FetchStatus describes how a single fetch attempt ended
type FetchStatus int

const (
	// FetchCompleted means the stream ended normally with the full
	// remaining content consumed
	FetchCompleted FetchStatus = iota
	// FetchPartial means the connection dropped mid-stream; the bytes
	// appended so far are kept and the transfer resumes from the new offset
	FetchPartial
)

// FetchResult is the outcome of a single fetch attempt
type FetchResult struct {
	Status        FetchStatus
	BytesAppended int64
}

// Fetcher performs exactly one network attempt to retrieve bytes of a
// remote file starting at offset and append them to the local file
type Fetcher interface {
	Fetch(ctx context.Context, d types.FileDescriptor, localPath string, offset int64) (FetchResult, error)
}

// ProgressObserver receives transfer progress callbacks. Progress reporting
// is decoupled from transfer correctness; implementations must be safe for
// concurrent use when the orchestrator runs multiple workers.
type ProgressObserver interface {
	// TransferStarted is called once per attempt with the resume offset
	TransferStarted(d types.FileDescriptor, offset int64)

	// TransferProgress is called as bytes are written to disk
	TransferProgress(d types.FileDescriptor, bytesWritten, total int64)

	// TransferFinished is called with the terminal outcome of the file
	TransferFinished(outcome types.Outcome)
}

// NoopObserver discards all progress callbacks
type NoopObserver struct{}

func (NoopObserver) TransferStarted(types.FileDescriptor, int64) {}

func (NoopObserver) TransferProgress(types.FileDescriptor, int64, int64) {}

func (NoopObserver) TransferFinished(types.Outcome) {}
