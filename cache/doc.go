// Package cache provides a sharded, thread-safe LRU cache.
//
// signkit uses it for parsed fonts and glyph outlines, which are expensive
// to load and immutable once loaded. Invalidation is explicit: entries
// stay until evicted by capacity or removed with Delete or Clear.
//
//	fonts := cache.NewStrings[*text.Source](32)
//	src, err := fonts.GetOrLoad(path, func() (*text.Source, error) {
//		data, err := os.ReadFile(path)
//		if err != nil {
//			return nil, err
//		}
//		return text.NewSource(data)
//	})
package cache
