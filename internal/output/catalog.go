package output

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

// ProductTable implements Formatter for product listings. Columns follow
// the property order; products keep their given order.
type ProductTable struct {
	Properties []catalog.Property
	Products   []catalog.Product
}

// FormatText returns one row per product: ID, then one column per property.
func (t *ProductTable) FormatText() string {
	if len(t.Products) == 0 {
		return ""
	}

	header := []string{"ID"}
	for _, p := range t.Properties {
		header = append(header, p.Name)
	}

	tw := NewTableWriter()
	tw.Header(header...)
	for _, product := range t.Products {
		row := []string{strconv.Itoa(product.ID)}
		for _, p := range t.Properties {
			v, ok := product.ValueFor(p.ID)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, v.String())
		}
		tw.Row(row...)
	}
	return tw.String()
}

// jsonProduct is a product with values keyed by property name.
type jsonProduct struct {
	ID     int                      `json:"id"`
	Values map[string]catalog.Value `json:"values"`
}

func toJSONProducts(props []catalog.Property, products []catalog.Product) []jsonProduct {
	names := make(map[int]string, len(props))
	for _, p := range props {
		names[p.ID] = p.Name
	}

	out := make([]jsonProduct, 0, len(products))
	for _, product := range products {
		jp := jsonProduct{ID: product.ID, Values: make(map[string]catalog.Value, len(product.PropertyValues))}
		for _, pv := range product.PropertyValues {
			name, ok := names[pv.PropertyID]
			if !ok {
				name = strconv.Itoa(pv.PropertyID)
			}
			jp.Values[name] = pv.Value
		}
		out = append(out, jp)
	}
	return out
}

// FormatJSON returns a JSON array of products with values keyed by property name.
func (t *ProductTable) FormatJSON() ([]byte, error) {
	return json.MarshalIndent(toJSONProducts(t.Properties, t.Products), "", "  ")
}

// PropertyList implements Formatter for property listings.
type PropertyList struct {
	Properties []catalog.Property
}

// FormatText returns a table of ID, NAME, TYPE, VALUES.
func (l *PropertyList) FormatText() string {
	if len(l.Properties) == 0 {
		return ""
	}
	tw := NewTableWriter()
	tw.Header("ID", "NAME", "TYPE", "VALUES")
	for _, p := range l.Properties {
		tw.Row(strconv.Itoa(p.ID), p.Name, string(p.Type), strings.Join(p.Values, ","))
	}
	return tw.String()
}

// FormatJSON returns the properties as a JSON array.
func (l *PropertyList) FormatJSON() ([]byte, error) {
	if len(l.Properties) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(l.Properties, "", "  ")
}

// OperatorList implements Formatter for operator listings.
type OperatorList struct {
	Operators []catalog.Operator
}

// FormatText returns a table of ID, TEXT.
func (l *OperatorList) FormatText() string {
	if len(l.Operators) == 0 {
		return ""
	}
	tw := NewTableWriter()
	tw.Header("ID", "TEXT")
	for _, op := range l.Operators {
		tw.Row(op.ID, op.Text)
	}
	return tw.String()
}

// FormatJSON returns the operators as a JSON array.
func (l *OperatorList) FormatJSON() ([]byte, error) {
	if len(l.Operators) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(l.Operators, "", "  ")
}
