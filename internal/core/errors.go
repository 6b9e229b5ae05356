package core

import "errors"

// ErrNoValidSources is returned when every submitted source was skipped and
// there is nothing to compose.
var ErrNoValidSources = errors.New("no valid sources: nothing to compose")

// ErrRunNotFound is returned when a run ID is unknown or has expired.
var ErrRunNotFound = errors.New("run not found")

// ErrFileTooLarge is returned when a submitted file exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrUnsupportedFile is returned for file extensions the reader cannot handle.
var ErrUnsupportedFile = errors.New("unsupported file type")
