package main

import (
	"errors"

	webber "github.com/alnah/go-webber"
	"github.com/alnah/go-webber/internal/config"
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/pipeline"
)

// Exit codes for the webber CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Page written, or build skipped by the CI guard
	ExitBuild   = 1 // A build stage failed
	ExitUsage   = 2 // Invalid flags, config, or builder setup
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Stylesheet failures never reach here; they do not change the exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, guard.ErrInvalidPattern) ||
		errors.Is(err, webber.ErrInvalidEngine) ||
		errors.Is(err, webber.ErrEmptyInput) ||
		errors.Is(err, pipeline.ErrUnknownLanguage) {
		return ExitUsage
	}

	return ExitBuild
}
