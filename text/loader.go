package text

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
)

// DefaultLoader returns a loader that understands BuiltinFont, http and
// https URLs fetched with client, file:// URLs and plain file paths.
//
// It reads any path the process can read. Use RestrictedLoader for fonts
// named by untrusted callers.
func DefaultLoader(client *http.Client) Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, name string) ([]byte, error) {
		switch {
		case name == BuiltinFont:
			return goregular.TTF, nil
		case isHTTP(name):
			return fetch(ctx, client, name)
		default:
			return os.ReadFile(strings.TrimPrefix(name, "file://"))
		}
	}
}

// RestrictedLoader returns a loader for untrusted font names. It accepts
// BuiltinFont, file names relative to dir, and http or https URLs whose
// host is in hosts. Redirects must stay on allowed hosts. An empty dir
// disables files and empty hosts disable downloads; anything else fails
// with ErrFontNotAllowed.
func RestrictedLoader(client *http.Client, dir string, hosts []string) Loader {
	if client == nil {
		client = http.DefaultClient
	}
	allowed := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed = append(allowed, h)
		}
	}
	hostAllowed := func(u *url.URL) bool {
		return slices.Contains(allowed, strings.ToLower(u.Hostname()))
	}

	guarded := *client
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !hostAllowed(req.URL) {
			return fmt.Errorf("%w: redirect to %s", ErrFontNotAllowed, req.URL.Host)
		}
		if client.CheckRedirect != nil {
			return client.CheckRedirect(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}

	return func(ctx context.Context, name string) ([]byte, error) {
		switch {
		case name == BuiltinFont:
			return goregular.TTF, nil
		case isHTTP(name):
			u, err := url.Parse(name)
			if err != nil || !hostAllowed(u) {
				return nil, fmt.Errorf("%w: host of %q", ErrFontNotAllowed, name)
			}
			return fetch(ctx, &guarded, name)
		case dir == "", strings.Contains(name, "://"), !filepath.IsLocal(name):
			return nil, fmt.Errorf("%w: %q", ErrFontNotAllowed, name)
		}
		return readInRoot(dir, name)
	}
}

// readInRoot reads name below dir. Symlinks leaving dir are refused by
// os.Root.
func readInRoot(dir, name string) ([]byte, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func isHTTP(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

func fetch(ctx context.Context, client *http.Client, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFontSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFontSize {
		return nil, fmt.Errorf("font larger than %d bytes", maxFontSize)
	}
	return data, nil
}
