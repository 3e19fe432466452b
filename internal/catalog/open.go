package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fetcher retrieves remote documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// Open resolves a catalog location to a Source:
//
//	""                  embedded sample catalog
//	http(s)://...       fetched with f, HTML or JSON by content type or extension
//	*.html, *.htm       HTML tables file
//	anything else       JSON document file
func Open(ctx context.Context, location string, f Fetcher) (*DocumentSource, error) {
	switch {
	case location == "":
		return Embedded(), nil
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		if f == nil {
			return nil, fmt.Errorf("no fetcher configured for %s", location)
		}
		data, contentType, err := f.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		if isHTML(contentType, path.Ext(stripQuery(location))) {
			return ParseHTML(bytes.NewReader(data))
		}
		return ParseJSON(data)
	case isHTML("", filepath.Ext(location)):
		fh, err := os.Open(location) //nolint:gosec // G304: user-supplied path
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = fh.Close() }()
		src, err := ParseHTML(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", location, err)
		}
		return src, nil
	default:
		return OpenJSON(location)
	}
}

func isHTML(contentType, ext string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return true
	}
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return true
	}
	return false
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
