package filter

import (
	"strings"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

// scalarInput is the free-form value, pre-processed once per Apply.
type scalarInput struct {
	value   catalog.Value
	text    string
	num     float64
	numOK   bool
	numeric bool // property is numeric: equality compares numbers
}

// operatorStrategy defines how an operator compares one stored value.
// Each strategy handles the scalar branch and the discrete multi-value branch.
type operatorStrategy interface {
	// MatchScalar compares stored value p against the scalar input.
	MatchScalar(p catalog.Value, v scalarInput) bool
	// MatchValues compares stored value p (stringified) against the selected values.
	MatchValues(p string, selected []string) bool
}

// rule binds a strategy to how per-entry matches become a product decision.
type rule struct {
	strategy operatorStrategy
	exclude  bool // product kept only if no entry matches
}

// operatorRules maps operator ids to their rules. Ids not listed match nothing.
var operatorRules = map[string]rule{
	catalog.OpEquals:      {strategy: equalsStrategy{}},
	catalog.OpGreaterThan: {strategy: greaterStrategy{}},
	catalog.OpLessThan:    {strategy: lessStrategy{}},
	catalog.OpAny:         {strategy: anyStrategy{}},
	catalog.OpNone:        {strategy: anyStrategy{}, exclude: true},
	catalog.OpIn:          {strategy: inStrategy{}},
	catalog.OpContains:    {strategy: containsStrategy{}},
}

// Strategy implementations

type equalsStrategy struct{}

func (equalsStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	if v.numeric {
		pn, ok := p.Number()
		return ok && v.numOK && pn == v.num
	}
	return p.String() == v.text
}
func (equalsStrategy) MatchValues(p string, selected []string) bool { return contains(selected, p) }

type greaterStrategy struct{}

func (greaterStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	pn, ok := p.Number()
	return ok && v.numOK && v.num < pn
}
func (greaterStrategy) MatchValues(string, []string) bool { return false }

type lessStrategy struct{}

func (lessStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	pn, ok := p.Number()
	return ok && v.numOK && v.num > pn
}
func (lessStrategy) MatchValues(string, []string) bool { return false }

type anyStrategy struct{}

func (anyStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	return strings.Contains(p.String(), v.text)
}

// MatchValues checks whether a selected value contains the stored one.
// The direction is the reverse of the scalar branch and is kept as is.
func (anyStrategy) MatchValues(p string, selected []string) bool {
	for _, s := range selected {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

type inStrategy struct{}

func (inStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	ps := p.String()
	for _, tok := range strings.Split(v.text, ",") {
		if strings.TrimSpace(tok) == ps {
			return true
		}
	}
	return false
}
func (inStrategy) MatchValues(p string, selected []string) bool { return contains(selected, p) }

type containsStrategy struct{}

func (containsStrategy) MatchScalar(p catalog.Value, v scalarInput) bool {
	return strings.Contains(strings.ToLower(p.String()), strings.ToLower(v.text))
}
func (containsStrategy) MatchValues(string, []string) bool { return false }

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Apply returns the products matching c, in input order. The input slice is
// never modified. Inactive criteria return a copy of the full list.
//
// Values take precedence over Scalar. For number properties with any
// operator but "in", a scalar that is not a number disables the filter.
func Apply(products []catalog.Product, c Criteria) []catalog.Product {
	if !c.Active() {
		return clone(products)
	}

	r, ok := operatorRules[c.OperatorID]
	if !ok {
		return []catalog.Product{} // unknown operator
	}

	var match func(catalog.Value) bool
	if len(c.Values) > 0 {
		match = func(p catalog.Value) bool { return r.strategy.MatchValues(p.String(), c.Values) }
	} else {
		in, ok := prepareScalar(c)
		if !ok {
			return clone(products)
		}
		match = func(p catalog.Value) bool { return r.strategy.MatchScalar(p, in) }
	}

	propertyID := c.Property.ID
	result := make([]catalog.Product, 0, len(products))
	for _, product := range products {
		if matchProduct(product, propertyID, match) != r.exclude {
			result = append(result, product)
		}
	}
	return result
}

// matchProduct reports whether any of the product's entries for propertyID matches.
func matchProduct(p catalog.Product, propertyID int, match func(catalog.Value) bool) bool {
	for _, pv := range p.PropertyValues {
		if pv.PropertyID == propertyID && match(pv.Value) {
			return true
		}
	}
	return false
}

// prepareScalar coerces the scalar for the selected property and operator.
// ok is false when a required numeric coercion fails.
func prepareScalar(c Criteria) (scalarInput, bool) {
	v := *c.Scalar
	in := scalarInput{value: v}
	in.num, in.numOK = v.Number()

	if c.Property.Type == catalog.TypeNumber && c.OperatorID != catalog.OpIn {
		if !in.numOK {
			return scalarInput{}, false
		}
		in.numeric = true
		in.value = catalog.NumberValue(in.num)
	}
	in.text = in.value.String()
	return in, true
}

func clone(products []catalog.Product) []catalog.Product {
	return append([]catalog.Product{}, products...)
}
