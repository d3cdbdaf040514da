package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidHeight is returned for a non-positive letter height.
	ErrInvalidHeight = errors.New("text: height must be positive")

	// ErrNoGlyphs is returned when no character of the text has an outline.
	ErrNoGlyphs = errors.New("text: no printable glyphs")

	// ErrFontNotAllowed is returned by RestrictedLoader for font names
	// outside the allowed directory and hosts.
	ErrFontNotAllowed = errors.New("text: font source not allowed")
)

// FontError is returned when a font cannot be fetched or parsed.
type FontError struct {
	URL string
	Err error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("text: font %q: %v", e.URL, e.Err)
}

func (e *FontError) Unwrap() error {
	return e.Err
}
