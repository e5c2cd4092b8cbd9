package transfer

import (
	"context"
	"errors"
	"log"
	"os"

	"zenget/pkg/types"
)

// Scheduler turns single flaky fetch attempts into a durable terminal
// outcome per file. Transient failures are retried indefinitely with
// backoff; the engine is meant to survive deliberately unstable
// connections rather than give up.
type Scheduler struct {
	fetcher  Fetcher
	backoff  Backoff
	observer ProgressObserver
}

// NewScheduler creates a scheduler driving the given fetcher. The backoff
// policy is injected so tests can simulate long failure runs without real
// delays. A nil observer disables progress reporting.
func NewScheduler(fetcher Fetcher, backoff Backoff, observer ProgressObserver) *Scheduler {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Scheduler{
		fetcher:  fetcher,
		backoff:  backoff,
		observer: observer,
	}
}

// RunUntilDone drives d to a terminal outcome, resuming from whatever is
// already on disk at localPath. The returned error is non-nil only for
// local storage failures, which make the whole run pointless; every other
// failure is contained in the outcome.
func (s *Scheduler) RunUntilDone(ctx context.Context, d types.FileDescriptor, localPath string) (types.Outcome, error) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return s.finish(types.FailedFatal(d, ErrCancelled.Error())), nil
		}

		written, err := Inspect(localPath)
		if err != nil {
			return s.finish(types.FailedFatal(d, err.Error())), err
		}

		if d.Size > 0 && written > d.Size {
			// More bytes on disk than the record declares: stale or
			// corrupt, start over.
			log.Printf("Local file larger than expected, redownloading: %s", d.Name)
			if err := os.Truncate(localPath, 0); err != nil {
				serr := &StorageError{Err: err}
				return s.finish(types.FailedFatal(d, serr.Error())), serr
			}
			written = 0
		}

		if d.Size > 0 && written == d.Size {
			// Idempotent resume: already fully present, no request made.
			return s.finish(types.Completed(d)), nil
		}

		res, err := s.fetcher.Fetch(ctx, d, localPath, written)
		if err != nil {
			switch {
			case IsStorage(err):
				return s.finish(types.FailedFatal(d, err.Error())), err
			case IsRetryable(err):
				attempt++
				if sleep(ctx, s.backoff.Next(attempt)) != nil {
					return s.finish(types.FailedFatal(d, ErrCancelled.Error())), nil
				}
				continue
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return s.finish(types.FailedFatal(d, ErrCancelled.Error())), nil
			default:
				return s.finish(types.FailedFatal(d, err.Error())), nil
			}
		}

		if res.Status == FetchCompleted {
			outcome, done, err := s.checkCompleted(d, localPath)
			if err != nil {
				return s.finish(outcome), err
			}
			if done {
				return s.finish(outcome), nil
			}
			// Stream ended cleanly but the file is not right yet
			// (short content or checksum mismatch): retry.
		} else if res.BytesAppended > 0 {
			// The connection made progress before dropping, so the
			// remote is reachable again: start the backoff over.
			attempt = 0
		}

		attempt++
		if sleep(ctx, s.backoff.Next(attempt)) != nil {
			return s.finish(types.FailedFatal(d, ErrCancelled.Error())), nil
		}
	}
}

// checkCompleted validates a completed stream against the declared size
// and checksum. done is false when the file must be retried.
func (s *Scheduler) checkCompleted(d types.FileDescriptor, localPath string) (types.Outcome, bool, error) {
	written, err := Inspect(localPath)
	if err != nil {
		return types.FailedFatal(d, err.Error()), false, err
	}

	if d.Size > 0 && written != d.Size {
		log.Printf("Size mismatch after download of %s: got %d, want %d, retrying", d.Name, written, d.Size)
		return types.Outcome{}, false, nil
	}

	if d.Checksum != "" {
		ok, err := VerifyChecksum(localPath, d.Checksum)
		if err != nil {
			if IsStorage(err) {
				return types.FailedFatal(d, err.Error()), false, err
			}
			return types.FailedFatal(d, err.Error()), true, nil
		}
		if !ok {
			// Assume a corrupted partial transfer rather than a bad
			// record: wipe and download again.
			log.Printf("Checksum mismatch for %s, restarting download", d.Name)
			if err := os.Truncate(localPath, 0); err != nil {
				serr := &StorageError{Err: err}
				return types.FailedFatal(d, serr.Error()), false, serr
			}
			return types.Outcome{}, false, nil
		}
	}

	return types.Completed(d), true, nil
}

func (s *Scheduler) finish(o types.Outcome) types.Outcome {
	s.observer.TransferFinished(o)
	return o
}
