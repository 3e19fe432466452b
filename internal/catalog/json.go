package catalog

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ivoronin/prodfilter/internal/version"
)

//go:embed data/catalog.json
var dataFS embed.FS

// Document is the JSON catalog document.
type Document struct {
	SchemaVersion string     `json:"schema_version,omitempty"`
	Properties    []Property `json:"properties"`
	Operators     []Operator `json:"operators"`
	Products      []Product  `json:"products"`
}

// DocumentSource serves a decoded Document. It never blocks.
type DocumentSource struct {
	Doc Document
}

func (s DocumentSource) Properties(context.Context) ([]Property, error) { return s.Doc.Properties, nil }
func (s DocumentSource) Products(context.Context) ([]Product, error)    { return s.Doc.Products, nil }
func (s DocumentSource) Operators(context.Context) ([]Operator, error)  { return s.Doc.Operators, nil }

// DecodeJSON reads a JSON catalog document and checks its schema version.
func DecodeJSON(r io.Reader) (*DocumentSource, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrInvalidCatalog, err)
	}
	if err := version.CheckSchema(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return &DocumentSource{Doc: doc}, nil
}

// ParseJSON is DecodeJSON over a byte slice.
func ParseJSON(data []byte) (*DocumentSource, error) {
	return DecodeJSON(bytes.NewReader(data))
}

// OpenJSON reads a JSON catalog document from a file.
func OpenJSON(path string) (*DocumentSource, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-supplied path
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Embedded returns the sample catalog compiled into the binary.
func Embedded() *DocumentSource {
	data, err := dataFS.ReadFile("data/catalog.json")
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded catalog: %v", err))
	}
	src, err := ParseJSON(data)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded catalog: %v", err))
	}
	return src
}

// EncodeJSON writes c as an indented JSON document at the current schema version.
func EncodeJSON(w io.Writer, c *Catalog) error {
	doc := Document{
		SchemaVersion: version.DefaultSchema,
		Properties:    c.Properties(),
		Operators:     c.Operators(),
		Products:      c.Products(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
