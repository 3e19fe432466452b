package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when catalog data violates an invariant.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Source supplies the raw catalog. Implementations may block on I/O.
type Source interface {
	Properties(ctx context.Context) ([]Property, error)
	Products(ctx context.Context) ([]Product, error)
	Operators(ctx context.Context) ([]Operator, error)
}

// Catalog is an immutable, validated snapshot of properties, products and
// the operator universe. Accessors return copies.
type Catalog struct {
	properties []Property
	products   []Product
	operators  []Operator
	byID       map[int]int // property id -> index in properties
}

// Load reads everything from src once and validates it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	props, err := src.Properties(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	products, err := src.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	ops, err := src.Operators(ctx)
	if err != nil {
		return nil, fmt.Errorf("load operators: %w", err)
	}
	return New(props, products, ops)
}

// New validates the given slices and builds a Catalog from deep copies of them.
func New(props []Property, products []Product, ops []Operator) (*Catalog, error) {
	c := &Catalog{
		properties: copyProperties(props),
		products:   copyProducts(products),
		operators:  append([]Operator(nil), ops...),
		byID:       make(map[int]int, len(props)),
	}

	for i, p := range c.properties {
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w: property %d has unknown type %q", ErrInvalidCatalog, p.ID, p.Type)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate property id %d", ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = i
	}

	seenOps := make(map[string]bool, len(c.operators))
	for _, o := range c.operators {
		if o.ID == "" {
			return nil, fmt.Errorf("%w: operator with empty id", ErrInvalidCatalog)
		}
		if seenOps[o.ID] {
			return nil, fmt.Errorf("%w: duplicate operator id %q", ErrInvalidCatalog, o.ID)
		}
		seenOps[o.ID] = true
	}

	seenProducts := make(map[int]bool, len(c.products))
	for _, p := range c.products {
		if seenProducts[p.ID] {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		seenProducts[p.ID] = true

		seenValues := make(map[int]bool, len(p.PropertyValues))
		for _, pv := range p.PropertyValues {
			if _, ok := c.byID[pv.PropertyID]; !ok {
				return nil, fmt.Errorf("%w: product %d references unknown property %d", ErrInvalidCatalog, p.ID, pv.PropertyID)
			}
			if seenValues[pv.PropertyID] {
				return nil, fmt.Errorf("%w: product %d has more than one value for property %d", ErrInvalidCatalog, p.ID, pv.PropertyID)
			}
			seenValues[pv.PropertyID] = true
		}
	}

	return c, nil
}

// Properties returns the properties in load order.
func (c *Catalog) Properties() []Property { return copyProperties(c.properties) }

// Products returns the products in load order.
func (c *Catalog) Products() []Product { return copyProducts(c.products) }

// Operators returns the operator universe in load order.
func (c *Catalog) Operators() []Operator { return append([]Operator(nil), c.operators...) }

// Property looks a property up by id.
func (c *Catalog) Property(id int) (Property, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Property{}, false
	}
	return copyProperty(c.properties[i]), true
}

// PropertyByName looks a property up by name, ignoring case.
func (c *Catalog) PropertyByName(name string) (Property, bool) {
	name = strings.TrimSpace(name)
	for _, p := range c.properties {
		if strings.EqualFold(p.Name, name) {
			return copyProperty(p), true
		}
	}
	return Property{}, false
}

func copyProperty(p Property) Property {
	if p.Values != nil {
		p.Values = append([]string(nil), p.Values...)
	}
	return p
}

func copyProperties(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = copyProperty(p)
	}
	return out
}

func copyProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Product{ID: p.ID, PropertyValues: append([]PropertyValue(nil), p.PropertyValues...)}
	}
	return out
}
