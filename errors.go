package webber

import "errors"

// Sentinel errors for library operations. Each wraps the underlying
// package error, so both can be matched with errors.Is.
var (
	ErrSnippets   = errors.New("snippet loading failed")
	ErrStaticPart = errors.New("static part loading failed")
	ErrTags       = errors.New("tag loading failed")
	ErrAssemble   = errors.New("page assembly failed")
	ErrMinify     = errors.New("page minification failed")
	ErrWrite      = errors.New("page write failed")

	// Option validation errors.
	ErrInvalidEngine = errors.New("invalid highlight engine")
	ErrEmptyInput    = errors.New("input path cannot be empty")
)
