package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input limits shared by the CLI and the HTTP API.
const (
	MaxSourceBytes     = 256 * 1024
	MaxBoardNameLength = 60
)

// ValidateSource checks diagram source before it reaches the parser.
//
// The rules are deliberately coarse; grammar errors are the parser's job:
//   - Source cannot be empty or whitespace only
//   - Size is bounded by MaxSourceBytes
//   - Must be valid UTF-8 without null bytes
func ValidateSource(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "diagram source cannot be empty")
	}
	if len(text) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (max %d bytes)", MaxSourceBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "diagram source is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "diagram source contains null bytes")
	}
	return nil
}

// ValidateBoardName validates a user supplied board name.
// An empty name is allowed; the pipeline substitutes a generated one.
func ValidateBoardName(name string) error {
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > MaxBoardNameLength {
		return New(ErrCodeInvalidInput, "board name too long (max %d characters)", MaxBoardNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "board name contains invalid control characters")
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

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
