// Package generate regenerates the sample catalog embedded in the binary.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

// CatalogGenerator produces a validated catalog.
type CatalogGenerator interface {
	Name() string
	Generate(ctx context.Context) (*catalog.Catalog, error)
}

// SourceGenerator reads a catalog from a file or URL, HTML or JSON.
type SourceGenerator struct {
	Location string
	Fetcher  catalog.Fetcher // required for http(s) locations
}

// Name returns the source location.
func (g SourceGenerator) Name() string { return g.Location }

// Generate loads and validates the catalog at Location.
func (g SourceGenerator) Generate(ctx context.Context) (*catalog.Catalog, error) {
	src, err := catalog.Open(ctx, g.Location, g.Fetcher)
	if err != nil {
		return nil, err
	}
	return catalog.Load(ctx, src)
}

// WriteFile writes c as a JSON document to path. The file is replaced
// atomically so a failed run leaves the previous catalog in place.
func WriteFile(path string, c *catalog.Catalog) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := catalog.EncodeJSON(tmp, c); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
