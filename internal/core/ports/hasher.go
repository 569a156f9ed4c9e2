package ports

import "go.trai.ch/drift/internal/core/domain"

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile computes the content hash of the file at path.
	// The hash is a pure function of the file bytes.
	HashFile(path string) (domain.FileHash, error)
}
