package assets

import (
	"errors"
	"testing"
)

func TestValidatePartName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "html file", input: "index-start.html"},
		{name: "no extension", input: "header"},
		{name: "empty", input: "", wantErr: true},
		{name: "forward slash", input: "../secret.html", wantErr: true},
		{name: "backslash", input: `..\secret.html`, wantErr: true},
		{name: "null byte", input: "a\x00.html", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePartName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPartName) {
					t.Errorf("ValidatePartName(%q) error = %v, want ErrInvalidPartName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidatePartName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
