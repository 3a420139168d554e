package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default fragment names.
const (
	DefaultHeaderName = "index-start.html"
	DefaultFooterName = "index-end.html"
)

// PartLoader defines the contract for loading static HTML fragments.
type PartLoader interface {
	// LoadPart returns the raw content of the named fragment.
	// Returns ErrPartNotFound if it does not exist.
	LoadPart(name string) (string, error)
}

// StaticParts holds the header and footer that frame the generated page.
type StaticParts struct {
	Header string
	Footer string
}

// LoadStaticParts loads the header and footer through loader.
// Both fragments are required.
func LoadStaticParts(loader PartLoader, headerName, footerName string) (*StaticParts, error) {
	header, err := loader.LoadPart(headerName)
	if err != nil {
		return nil, err
	}
	footer, err := loader.LoadPart(footerName)
	if err != nil {
		return nil, err
	}
	return &StaticParts{Header: header, Footer: footer}, nil
}

// FilesystemLoader loads fragments from a directory on the filesystem.
// Implements PartLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path so containment checks compare real paths
	realPath, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the resolved directory the loader reads from.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// LoadPart reads {basePath}/{name} verbatim.
func (f *FilesystemLoader) LoadPart(name string) (string, error) {
	if err := ValidatePartName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, name)
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrPartNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return string(content), nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link pointing outside is rejected.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// EvalSymlinks fails for missing files; the read will report those.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ PartLoader = (*FilesystemLoader)(nil)
