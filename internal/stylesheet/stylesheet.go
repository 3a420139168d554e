// Package stylesheet compiles the site's SCSS source into a CSS file.
package stylesheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bep/godartsass/v2"

	"github.com/alnah/go-webber/internal/fileutil"
)

// Sentinel errors for stylesheet builds.
var (
	ErrCompile = errors.New("stylesheet compilation failed")
	ErrWrite   = errors.New("stylesheet write failed")
)

// DefaultSassBinary is looked up on PATH when no binary is configured.
const DefaultSassBinary = "sass"

// Compiler turns a stylesheet source file into CSS.
type Compiler interface {
	Compile(ctx context.Context, sourcePath string) (string, error)
}

// DartSass compiles SCSS through the dart-sass embedded protocol.
type DartSass struct {
	binary string
}

// NewDartSass creates a DartSass compiler. An empty binary means "sass" on PATH.
func NewDartSass(binary string) *DartSass {
	if binary == "" {
		binary = DefaultSassBinary
	}
	return &DartSass{binary: binary}
}

// Compile reads sourcePath and compiles it with compressed output.
// @use and @import resolve relative to the source directory.
func (d *DartSass) Compile(ctx context.Context, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source, err := os.ReadFile(sourcePath) // #nosec G304 -- stylesheet path is configured by the site owner
	if err != nil {
		return "", err
	}

	transpiler, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: d.binary,
	})
	if err != nil {
		return "", fmt.Errorf("starting %s: %w", d.binary, err)
	}
	defer func() { _ = transpiler.Close() }()

	syntax := godartsass.SourceSyntaxSCSS
	if strings.EqualFold(filepath.Ext(sourcePath), ".sass") {
		syntax = godartsass.SourceSyntaxSASS
	}

	result, err := transpiler.Execute(godartsass.Args{
		Source:       string(source),
		IncludePaths: []string{filepath.Dir(sourcePath)},
		OutputStyle:  godartsass.OutputStyleCompressed,
		SourceSyntax: syntax,
	})
	if err != nil {
		return "", err
	}
	return result.CSS, nil
}

// BuildInput describes one stylesheet build.
type BuildInput struct {
	Source string
	Output string
	// Extra is appended after the compiled CSS (e.g. highlighting theme rules).
	Extra string
}

// Build compiles in.Source with compiler and writes the CSS to in.Output.
func Build(ctx context.Context, compiler Compiler, in BuildInput) error {
	css, err := compiler.Compile(ctx, in.Source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompile, err)
	}

	if in.Extra != "" {
		css = strings.TrimRight(css, "\n") + "\n" + in.Extra
	}

	if err := fileutil.WriteFileAtomic(in.Output, []byte(css)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Compile-time interface check.
var _ Compiler = (*DartSass)(nil)
