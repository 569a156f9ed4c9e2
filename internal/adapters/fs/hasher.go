package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes SHA-256 content hashes. The hash depends only on the file
// bytes, never on path or mtime, so byte-identical files always collide.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile computes the content hash of the file at path.
func (h *Hasher) HashFile(path string) (domain.FileHash, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileHash{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return domain.FileHash{}, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := sha256.New()
	if _, err := io.Copy(digest, f); err != nil {
		return domain.FileHash{}, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return domain.FileHash{
		Path:        path,
		ContentHash: hex.EncodeToString(digest.Sum(nil)),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}
