package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML reads a catalog exported as HTML tables:
//
//	table#properties  ID | Name | Type | Values (comma-separated, optional)
//	table#operators   ID | Text
//	table#products    ID | <property name> ...
//
// Product cells are typed by the column's property: number properties are
// parsed as numbers, everything else is kept as text. Empty cells mean the
// product has no value for that property.
func ParseHTML(r io.Reader) (*DocumentSource, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", ErrInvalidCatalog, err)
	}

	props, err := htmlProperties(doc)
	if err != nil {
		return nil, err
	}
	ops, err := htmlOperators(doc)
	if err != nil {
		return nil, err
	}
	products, err := htmlProducts(doc, props)
	if err != nil {
		return nil, err
	}

	return &DocumentSource{Doc: Document{Properties: props, Operators: ops, Products: products}}, nil
}

// tableRows returns the cell texts of every body row of the table matched by sel.
func tableRows(doc *goquery.Document, sel string) ([][]string, error) {
	table := doc.Find(sel).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: html: missing %s", ErrInvalidCatalog, sel)
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("th").Length() > 0 {
			return // header row
		}
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows, nil
}

func tableHeader(doc *goquery.Document, sel string) []string {
	var header []string
	doc.Find(sel).First().Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, strings.TrimSpace(th.Text()))
	})
	return header
}

func htmlProperties(doc *goquery.Document) ([]Property, error) {
	rows, err := tableRows(doc, "table#properties")
	if err != nil {
		return nil, err
	}

	props := make([]Property, 0, len(rows))
	for i, cells := range rows {
		if len(cells) < 3 {
			return nil, fmt.Errorf("%w: html: properties row %d has %d cells, want at least 3", ErrInvalidCatalog, i+1, len(cells))
		}
		id, err := strconv.Atoi(cells[0])
		if err != nil {
			return nil, fmt.Errorf("%w: html: properties row %d: invalid id %q", ErrInvalidCatalog, i+1, cells[0])
		}
		p := Property{ID: id, Name: cells[1], Type: PropertyType(strings.ToLower(cells[2]))}
		if len(cells) > 3 && cells[3] != "" {
			p.Values = splitList(cells[3])
		}
		props = append(props, p)
	}
	return props, nil
}

func htmlOperators(doc *goquery.Document) ([]Operator, error) {
	rows, err := tableRows(doc, "table#operators")
	if err != nil {
		return nil, err
	}

	ops := make([]Operator, 0, len(rows))
	for i, cells := range rows {
		if len(cells) < 2 {
			return nil, fmt.Errorf("%w: html: operators row %d has %d cells, want 2", ErrInvalidCatalog, i+1, len(cells))
		}
		ops = append(ops, Operator{ID: cells[0], Text: cells[1]})
	}
	return ops, nil
}

func htmlProducts(doc *goquery.Document, props []Property) ([]Product, error) {
	header := tableHeader(doc, "table#products")
	if len(header) == 0 || !strings.EqualFold(header[0], "id") {
		return nil, fmt.Errorf("%w: html: products table must start with an ID column", ErrInvalidCatalog)
	}

	byName := make(map[string]Property, len(props))
	for _, p := range props {
		byName[strings.ToLower(p.Name)] = p
	}
	columns := make([]Property, len(header)-1)
	for i, name := range header[1:] {
		p, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: html: products column %q is not a known property", ErrInvalidCatalog, name)
		}
		columns[i] = p
	}

	rows, err := tableRows(doc, "table#products")
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(rows))
	for i, cells := range rows {
		id, err := strconv.Atoi(cells[0])
		if err != nil {
			return nil, fmt.Errorf("%w: html: products row %d: invalid id %q", ErrInvalidCatalog, i+1, cells[0])
		}
		product := Product{ID: id}
		for j, cell := range cells[1:] {
			if j >= len(columns) || cell == "" {
				continue
			}
			col := columns[j]
			value := StringValue(cell)
			if col.Type == TypeNumber {
				f, ok := ParseNumber(cell)
				if !ok {
					return nil, fmt.Errorf("%w: html: product %d: %s value %q is not a number", ErrInvalidCatalog, id, col.Name, cell)
				}
				value = NumberValue(f)
			}
			product.PropertyValues = append(product.PropertyValues, PropertyValue{PropertyID: col.ID, Value: value})
		}
		products = append(products, product)
	}
	return products, nil
}

// splitList splits a comma-separated list, trimming each item and dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
