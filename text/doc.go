// Package text lays out a line of text as signkit components.
//
// A Source is a parsed TrueType or OpenType font. Layout shapes the text
// with HarfBuzz (go-text/typesetting), so advances include kerning and
// ligatures, then extracts every glyph outline with golang.org/x/image
// sfnt and classifies its contours into planar shapes. Font units are
// scaled so that ascender minus descender equals the requested height.
//
// # Example usage
//
//	src, err := text.NewSource(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	comps, err := text.Layout(src, "OPEN", 200, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bundle, err := conv.ConvertComponents(comps, req)
//
// # Font cache
//
// FontCache keeps parsed fonts keyed by URL. Concurrent requests for the
// same URL share one download. Entries stay until evicted or removed with
// Invalidate or Purge; there is no time-based expiry.
package text
