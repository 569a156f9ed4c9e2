package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidRoot is returned when the watch root is not a directory.
	ErrInvalidRoot = zerr.New("watch root is not a valid directory")

	// ErrUnknownFileKind is returned when a facts envelope carries an unknown kind.
	ErrUnknownFileKind = zerr.New("unknown file kind")

	// ErrNoExtractor is returned when no extractor is registered for a file kind.
	ErrNoExtractor = zerr.New("no extractor registered for file kind")

	// ErrSessionAlreadyStarted is returned when Start is called on a running session.
	ErrSessionAlreadyStarted = zerr.New("session already started")

	// ErrSessionNotStarted is returned when an operation requires a running session.
	ErrSessionNotStarted = zerr.New("session not started")

	// ErrSnapshotReadFailed is returned when the persisted snapshot cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read cache snapshot")

	// ErrSnapshotCorrupt is returned when the persisted snapshot cannot be decoded.
	ErrSnapshotCorrupt = zerr.New("cache snapshot is corrupt")

	// ErrSnapshotMarshalFailed is returned when the snapshot cannot be serialized.
	ErrSnapshotMarshalFailed = zerr.New("failed to marshal cache snapshot")

	// ErrSnapshotWriteFailed is returned when the snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write cache snapshot")

	// ErrSnapshotStoreCreateFailed is returned when the snapshot directory cannot be created.
	ErrSnapshotStoreCreateFailed = zerr.New("failed to create snapshot directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidSeverity is returned when a rule severity is not error, warning, info or off.
	ErrInvalidSeverity = zerr.New("invalid rule severity, expected 'error', 'warning', 'info' or 'off'")

	// ErrInvalidNaming is returned when a naming convention is not recognized.
	ErrInvalidNaming = zerr.New("invalid naming convention")

	// ErrFileOpenFailed is returned when a file cannot be opened for hashing.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrWatcherStartFailed is returned when the file system watcher cannot start.
	ErrWatcherStartFailed = zerr.New("failed to start file system watcher")
)
