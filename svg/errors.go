package svg

import "errors"

// ErrNotSVG is returned when the document's root element is not <svg>.
var ErrNotSVG = errors.New("svg: not an SVG document")
