// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os/exec"
	"strings"
)

// LookPath reports whether a binary is on PATH. Replaced in tests.
var LookPath = func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ForSassBinary returns hints when the dart-sass binary cannot be started.
func ForSassBinary(binary string) string {
	if binary == "" {
		binary = "sass"
	}
	if LookPath(binary) {
		return format("check that " + binary + " is dart-sass >= 1.63 (embedded protocol)")
	}
	return format("install dart-sass or set WEBBER_SASS_BINARY / stylesheet.sassBinary")
}

// ForStaticPart returns hints for a missing header or footer fragment.
func ForStaticPart(dir, header, footer string) string {
	return format("expected " + header + " and " + footer + " in " + dir + "; use --static-parts to change the directory")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-webber/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/webber.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-webber") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForTagSource returns hints for unreadable tag sources.
func ForTagSource(supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	return format("supported tag sources: " + strings.Join(supported, ", "))
}

// ForMissingSnippet returns hints when the tag database names an unknown snippet.
func ForMissingSnippet() string {
	return format("remove the entry from the tag database or add the snippet file")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
