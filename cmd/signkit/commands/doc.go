// Package commands defines the signkit CLI.
//
// Commands
//
//   - prepare   Convert an SVG file into a manufacturing bundle
//   - text      Lay out text with a font and convert the glyphs
//   - validate  Check sign dimensions against the manufacturing limits
//   - segment   Plan the tiling of an oversized piece
//   - rules     Print the construction rules of a lighting type
//   - preset    Save, show, list and delete named presets
//   - serve     Run the HTTP API
//
// Every command prints JSON on stdout; logs go to stderr. Process
// configuration comes from SIGNKIT_* environment variables, which the
// persistent flags override.
package commands
