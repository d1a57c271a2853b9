package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// maxNameLength bounds object names in catalog files.
const maxNameLength = 256

// ValidateEntityName checks an object name read from a catalog file. It is
// stricter than the registry, which only refuses the empty name:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeValidation, "entity name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeValidation, "entity name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "entity name contains invalid control characters")
		}
	}

	return nil
}

// ValidateExponent rejects NaN and infinite exponents for an entity.
func ValidateExponent(exponent float64) error {
	if math.IsNaN(exponent) || math.IsInf(exponent, 0) {
		return New(ErrCodeValidation, "exponent must be finite, got %v", exponent)
	}
	return nil
}

// ValidateCurrentExponent rejects NaN and infinite viewing exponents.
// Unlike [ValidateExponent] it reports INVALID_INPUT, because the value comes
// from the frame loop rather than from a registered entity.
func ValidateCurrentExponent(current float64) error {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return New(ErrCodeInvalidInput, "current exponent must be finite, got %v", current)
	}
	return nil
}

// ValidateVersionKey validates a mirror cache version key such as
// "cosmic-scale-v1". Version keys are embedded in cache keys, so the
// separator ':' and whitespace are rejected.
func ValidateVersionKey(version string) error {
	if version == "" {
		return New(ErrCodeInvalidConfig, "version key cannot be empty")
	}
	if len(version) > 128 {
		return New(ErrCodeInvalidConfig, "version key too long (max 128 characters)")
	}
	for _, r := range version {
		if r == ':' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "version key contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateAssetPath validates an asset reference from a mirror manifest.
// An asset is either an absolute URL (see [ValidateURL]) or a path rooted at
// the upstream origin ("/index.html").
//
// Validation rules for paths:
//   - Must start with /
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "asset path cannot be empty")
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return ValidateURL(path)
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "asset path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "asset path must start with /: %q", path)
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "asset path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "asset path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL has no host: %q", rawURL)
	}

	return nil
}
