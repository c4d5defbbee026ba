package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateUnitInterval validates that a named option value lies in [0, 1].
// NaN is rejected. The field name appears in the error message so CLI and
// API callers can surface which flag or form field was wrong.
func ValidateUnitInterval(field string, v float64) error {
	if math.IsNaN(v) {
		return New(ErrCodeInvalidThreshold, "%s must be a number in [0, 1]", field)
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidThreshold, "%s must be in [0, 1], got %g", field, v)
	}
	return nil
}

// presetNameRegex matches valid preset names: letters, digits, and
// separator characters, starting with a letter or digit.
var presetNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePresetName validates a preset name for safety and correctness.
// Preset names end up in file paths and cache keys, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 64 characters
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidPreset, "preset name too long (max 64 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPreset, "preset name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPreset, "preset name contains invalid characters: %q", pattern)
		}
	}

	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
// It rejects empty paths, null bytes, and control characters, but allows
// absolute paths: unlike preset names, output paths are meant to point
// anywhere the user can write.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
