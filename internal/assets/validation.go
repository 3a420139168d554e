package assets

import (
	"fmt"
	"strings"
)

// ValidatePartName checks that a part name is a bare file name.
// Returns ErrInvalidPartName if the name is empty, contains path separators,
// a null byte, or is a dot entry.
func ValidatePartName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPartName)
	}
	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidPartName, name)
	}
	return nil
}
