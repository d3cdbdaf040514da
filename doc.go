// Package signkit turns the vector outlines of illuminated signs into
// closed planar shapes ready for extrusion and 3D printing.
//
// # Overview
//
// Customers submit text set in a font or an uploaded logo. signkit parses
// the outlines, builds closed contours, pairs outer boundaries with their
// holes, strips background rectangles, re-detects the visible content box,
// and checks the requested dimensions against manufacturing limits. Shapes
// larger than the printer's build plate get a segmentation plan with
// connector joints along the shared edges.
//
// # Quick Start
//
//	import "github.com/gogpu/signkit"
//
//	conv := signkit.NewConverter()
//	defer conv.Close()
//
//	res, _ := signkit.ParsePathData("M0 0 H100 V100 H0 Z M20 20 V80 H80 V20 Z")
//	bundle, err := conv.ConvertArt(signkit.ArtInput{
//		Elements: []signkit.Element{{Commands: res.Commands}},
//	}, signkit.Request{Height: 200, Depth: 40, Lighting: signkit.LightingFront})
//
// # Pipeline
//
// Each stage is also usable on its own:
//   - ParsePathData: SVG path data to absolute commands
//   - BuildContours: commands to closed, flattened contours
//   - ClassifyContours: contours to outer + holes shapes
//   - StripBackground: drop canvas-covering background elements
//   - DetectContentBounds: raster re-crop of the visible content
//   - ResolveProfile: profile kind and depth to bevel parameters
//   - Validator.Validate: dimension checks with proposed fixes
//   - PlanSegments: build-plate tiling with overlap and joints
//
// Reading SVG documents lives in package svg and laying out text from a
// font in package text.
//
// # Coordinate System
//
// Working coordinates are y-down like SVG:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Positive signed area means clockwise on screen
//
// After conversion all lengths are millimetres.
//
// # Logging
//
// signkit logs through log/slog and is silent by default. Call SetLogger
// to enable output; sub-packages share the same logger.
package signkit

// Version is the current version of the library.
const Version = "0.1.0"
