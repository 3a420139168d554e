package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrPartNotFound indicates the requested static fragment does not exist.
	ErrPartNotFound = errors.New("static part not found")

	// ErrInvalidPartName indicates the part name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidPartName = errors.New("invalid static part name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading a fragment.
	ErrAssetRead = errors.New("failed to read static part")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
