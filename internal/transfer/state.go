package transfer

import (
	"errors"
	"io/fs"
	"os"
)

// Inspect reports how many bytes of the file at path are already on disk.
// The length on disk is the only source of truth for resume decisions: it
// is re-read every time and never cached, so a truncated or externally
// modified file is picked up on the next attempt.
func Inspect(localPath string) (int64, error) {
	info, err := os.Stat(localPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, &StorageError{Err: err}
	}
	return info.Size(), nil
}
