// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 4MB).
// Tag databases for large snippet collections are bigger than config files.
var MaxInputSize = 4 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: top-level value is not a mapping")
)

// KeyValue is one top-level entry of a YAML mapping, in document order.
type KeyValue struct {
	Key   string
	Value any
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalOrdered decodes a top-level mapping keeping key order.
// Keys are formatted with fmt so numeric or boolean keys still come back as strings.
func UnmarshalOrdered(data []byte) ([]KeyValue, error) {
	var slice yaml.MapSlice
	if err := Unmarshal(data, &slice); err != nil {
		if errors.Is(err, ErrNilData) || errors.Is(err, ErrInputTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNotMapping, err)
	}

	out := make([]KeyValue, 0, len(slice))
	for _, item := range slice {
		out = append(out, KeyValue{Key: fmt.Sprint(item.Key), Value: item.Value})
	}
	return out, nil
}
