package signkit

import "errors"

// Sentinel errors for the signkit package.
var (
	// ErrUnknownLighting is returned for an unrecognized lighting type.
	ErrUnknownLighting = errors.New("signkit: unknown lighting type")

	// ErrUnknownProfile is returned for an unrecognized profile kind.
	ErrUnknownProfile = errors.New("signkit: unknown profile")

	// ErrInvalidSegmentation is returned when segmentation parameters
	// cannot produce a grid.
	ErrInvalidSegmentation = errors.New("signkit: invalid segmentation parameters")

	// ErrInvalidRequest is returned when a conversion request lacks the
	// dimensions needed to scale geometry.
	ErrInvalidRequest = errors.New("signkit: invalid request")

	// ErrNoGeometry is returned when no shape survives the pipeline.
	ErrNoGeometry = errors.New("signkit: no usable geometry")
)
