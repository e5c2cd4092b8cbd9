package transfer

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"log"
	"os"
	"strings"
)

// VerifyChecksum streams the local file through the hash named by the
// declared checksum and reports whether it matches. The declared value is
// "algo:hex"; a bare hex digest is treated as md5, which is what older
// Zenodo records publish.
func VerifyChecksum(localPath, declared string) (bool, error) {
	algo, want := "md5", declared
	if i := strings.IndexByte(declared, ':'); i >= 0 {
		algo, want = declared[:i], declared[i+1:]
	}

	var h hash.Hash
	switch strings.ToLower(algo) {
	case "md5":
		h = md5.New()
	case "sha1":
		h = sha1.New()
	case "sha256":
		h = sha256.New()
	default:
		// Can't verify what we can't compute. Trust the size check
		// instead of retrying a file that may well be correct.
		log.Printf("Skipping verification of %s: unsupported checksum algorithm %q", localPath, algo)
		return true, nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return false, &StorageError{Err: err}
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return false, &StorageError{Err: err}
	}

	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), want), nil
}
