// Package filter provides the product predicate engine and the filter expression parser.
package filter

import "github.com/ivoronin/prodfilter/internal/catalog"

// Criteria is the selection a product list is filtered by.
type Criteria struct {
	Property   *catalog.Property
	OperatorID string
	Values     []string       // discrete multi-select; takes precedence over Scalar
	Scalar     *catalog.Value // free-form input; nil means absent
}

// Active reports whether c selects a filter branch: a property plus either
// values or a present scalar. An empty text scalar counts as absent; a
// numeric zero does not. OperatorID is not consulted, so an active filter
// with an empty or unknown operator yields an empty result.
func (c Criteria) Active() bool {
	return c.Property != nil && (len(c.Values) > 0 || c.hasScalar())
}

func (c Criteria) hasScalar() bool {
	return c.Scalar != nil && (c.Scalar.IsNumber() || c.Scalar.String() != "")
}
