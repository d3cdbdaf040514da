package text

import (
	"context"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/cache"
)

// BuiltinFont is the URL of the font compiled into the binary (Go Regular).
const BuiltinFont = "builtin:goregular"

// maxFontSize bounds a downloaded font file.
const maxFontSize = 32 << 20

// Loader fetches raw font data for a URL or file name.
type Loader func(ctx context.Context, url string) ([]byte, error)

// FontCache keeps parsed fonts keyed by URL.
//
// FontCache is safe for concurrent use.
type FontCache struct {
	fonts *cache.Cache[string, *Source]
	group singleflight.Group
	load  Loader
}

// CacheOption configures a FontCache.
type CacheOption func(*FontCache)

// WithLoader replaces the default loader.
func WithLoader(l Loader) CacheOption {
	return func(c *FontCache) {
		if l != nil {
			c.load = l
		}
	}
}

// NewFontCache creates a cache holding up to capacity fonts per shard.
// Fonts are loaded with DefaultLoader unless WithLoader is given.
func NewFontCache(capacity int, opts ...CacheOption) *FontCache {
	c := &FontCache{
		fonts: cache.NewStrings[*Source](capacity),
		load:  DefaultLoader(http.DefaultClient),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the parsed font for url, loading it on first use.
// Concurrent calls for one URL share a single load. Failures are not
// cached.
func (c *FontCache) Get(ctx context.Context, url string) (*Source, error) {
	if src, ok := c.fonts.Get(url); ok {
		return src, nil
	}
	v, err, shared := c.group.Do(url, func() (any, error) {
		// A load that finished between the miss above and Do is reused.
		if src, ok := c.fonts.Get(url); ok {
			return src, nil
		}
		data, err := c.load(ctx, url)
		if err != nil {
			return nil, &FontError{URL: url, Err: err}
		}
		src, err := NewSource(data)
		if err != nil {
			return nil, &FontError{URL: url, Err: err}
		}
		c.fonts.Set(url, src)
		signkit.Logger().Info("font loaded", "url", url, "name", src.Name(), "bytes", len(data))
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		signkit.Logger().Debug("font load shared", "url", url)
	}
	return v.(*Source), nil
}

// Invalidate drops the font cached for url and reports whether one was
// cached.
func (c *FontCache) Invalidate(url string) bool {
	return c.fonts.Delete(url)
}

// Purge drops every cached font.
func (c *FontCache) Purge() {
	c.fonts.Clear()
}

// Stats returns cache statistics.
func (c *FontCache) Stats() cache.Stats {
	return c.fonts.Stats()
}
