package main

import (
	"io"
	"os"

	webber "github.com/alnah/go-webber"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Lookup  func(key string) (string, bool) // Environment variables and guard inputs
	Environ func() []string

	// Options are appended to the builder options derived from config.
	Options []webber.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Lookup:  os.LookupEnv,
		Environ: os.Environ,
	}
}
