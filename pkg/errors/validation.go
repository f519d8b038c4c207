package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ProjectExt is the file extension of saved projects.
const ProjectExt = ".gry"

// ValidateOutputPath validates a path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must end in one of the allowed extensions, if any are given
func ValidateOutputPath(path string, exts ...string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "%s: extension must be one of %s", path, strings.Join(exts, ", "))
}

// ValidateTraceNumber checks a 1-based trace number against the number of
// traces loaded.
func ValidateTraceNumber(n, count int) error {
	if count == 0 {
		return New(ErrCodeNoTraces, "No traces were generated.")
	}
	if n < 1 || n > count {
		return New(ErrCodeTraceNotFound, "trace %d out of range (1-%d)", n, count)
	}
	return nil
}
