package domain

import "path/filepath"

const (
	// ConfigFileName is the configuration file discovered by walking up from cwd.
	ConfigFileName = "drift.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultSnapshotPath returns the on-disk location of the persisted cache
// snapshot relative to the watch root.
func DefaultSnapshotPath(root string) string {
	return filepath.Join(root, ".drift", "cache.json")
}
