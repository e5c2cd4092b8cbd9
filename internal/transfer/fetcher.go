package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"zenget/pkg/types"
)

// FetcherOptions configures the HTTP range fetcher
type FetcherOptions struct {
	// ChunkSize is the copy buffer size. Default: 32 KB.
	ChunkSize int

	// AttemptTimeout aborts the attempt when no data arrives for this
	// long. Zero disables the watchdog.
	AttemptTimeout time.Duration

	// Observer receives per-chunk progress callbacks. May be nil.
	Observer ProgressObserver

	// Client overrides the HTTP client, used by tests. May be nil.
	Client *http.Client
}

// HTTPFetcher retrieves bytes [offset, end) of a remote file with a single
// HTTP GET and appends them to the local file. The response body is
// streamed to disk in bounded chunks, so memory use is independent of
// file size.
type HTTPFetcher struct {
	client         *http.Client
	chunkSize      int
	attemptTimeout time.Duration
	observer       ProgressObserver
}

// NewHTTPFetcher creates a fetcher with the given options
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 32 * 1024
	}
	if opts.Observer == nil {
		opts.Observer = NoopObserver{}
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				// Raw bytes only: a gzip layer would make the local
				// file length meaningless as a resume offset.
				DisableCompression: true,
			},
		}
	}
	return &HTTPFetcher{
		client:         client,
		chunkSize:      opts.ChunkSize,
		attemptTimeout: opts.AttemptTimeout,
		observer:       opts.Observer,
	}
}

// Fetch performs one attempt to download d starting at offset.
//
// A 206 response is appended at the current offset. A 200 response when a
// range was requested means the server ignored the range header, so the
// local file is truncated and rewritten from the full body instead of
// silently duplicating data. A 416 response truncates the local file so
// the next attempt restarts from zero.
//
// A connection dropping mid-stream is reported as a partial result, not an
// error: the bytes already appended stay on disk and the next attempt
// resumes after them.
func (f *HTTPFetcher) Fetch(ctx context.Context, d types.FileDescriptor, localPath string, offset int64) (FetchResult, error) {
	wdCtx, wd := newWatchdog(ctx, f.attemptTimeout)
	defer wd.Stop()

	req, err := http.NewRequestWithContext(wdCtx, http.MethodGet, d.URL, nil)
	if err != nil {
		return FetchResult{}, &FatalFileError{Err: fmt.Errorf("create request: %w", err)}
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return FetchResult{}, ctx.Err()
		}
		if errors.Is(context.Cause(wdCtx), os.ErrDeadlineExceeded) {
			return FetchResult{}, &RetryableError{Err: fmt.Errorf("attempt timed out: %w", err)}
		}
		return FetchResult{}, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	appendToFile := false
	switch resp.StatusCode {
	case http.StatusPartialContent:
		appendToFile = offset > 0
	case http.StatusOK:
		// Server ignored the range request: restart from zero rather
		// than appending a full copy after the existing bytes.
		offset = 0
	case http.StatusRequestedRangeNotSatisfiable:
		if err := os.Truncate(localPath, 0); err != nil && !errors.Is(err, os.ErrNotExist) {
			return FetchResult{}, &StorageError{Err: err}
		}
		return FetchResult{Status: FetchPartial}, nil
	default:
		return FetchResult{}, classifyStatus(resp.StatusCode, resp.Status)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendToFile {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	out, err := os.OpenFile(localPath, flags, 0644)
	if err != nil {
		return FetchResult{}, &StorageError{Err: err}
	}

	f.observer.TransferStarted(d, offset)

	var written int64
	buf := make([]byte, f.chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			wd.Kick()
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				return FetchResult{}, &StorageError{Err: writeErr}
			}
			written += int64(n)
			f.observer.TransferProgress(d, offset+written, d.Size)
		}
		if readErr != nil {
			if closeErr := out.Close(); closeErr != nil {
				return FetchResult{}, &StorageError{Err: closeErr}
			}
			if readErr == io.EOF {
				return FetchResult{Status: FetchCompleted, BytesAppended: written}, nil
			}
			if ctx.Err() != nil {
				return FetchResult{}, ctx.Err()
			}
			// Dropped connection or inactivity cutoff: keep what we
			// have and resume on the next attempt.
			return FetchResult{Status: FetchPartial, BytesAppended: written}, nil
		}
	}
}
