// Package session owns the in-progress filter selection and publishes the
// filtered product list after every transition.
//
// Transitions are synchronous: each one computes the new selection and the
// new product list together and returns them as a State. A Session is not
// safe for concurrent use.
package session

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ivoronin/prodfilter/internal/catalog"
	"github.com/ivoronin/prodfilter/internal/filter"
	"github.com/ivoronin/prodfilter/internal/operators"
)

// Selection is the current choice of property, operator and value(s).
type Selection struct {
	Property   *catalog.Property
	OperatorID string
	Values     []string
	Scalar     *catalog.Value // nil when no scalar is set
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Property == nil && s.OperatorID == "" && len(s.Values) == 0 && s.Scalar == nil
}

func (s Selection) criteria() filter.Criteria {
	return filter.Criteria{Property: s.Property, OperatorID: s.OperatorID, Values: s.Values, Scalar: s.Scalar}
}

func (s Selection) clone() Selection {
	out := Selection{OperatorID: s.OperatorID}
	if s.Property != nil {
		p := *s.Property
		p.Values = append([]string(nil), p.Values...)
		out.Property = &p
	}
	if s.Values != nil {
		out.Values = append([]string{}, s.Values...)
	}
	if s.Scalar != nil {
		v := *s.Scalar
		out.Scalar = &v
	}
	return out
}

// State is everything the presentation layer renders.
type State struct {
	Selection      Selection
	Operators      []catalog.Operator // legal for the selected property
	PropertyValues []string           // closed value set of the selected property
	Products       []catalog.Product  // current filtered list
}

func (s State) clone() State {
	return State{
		Selection:      s.Selection.clone(),
		Operators:      append([]catalog.Operator(nil), s.Operators...),
		PropertyValues: append([]string(nil), s.PropertyValues...),
		Products:       append([]catalog.Product(nil), s.Products...),
	}
}

// Session drives the filter selection over one catalog.
type Session struct {
	catalog *catalog.Catalog
	state   State
	log     logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger transitions are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

// New starts a session with an empty selection and the full catalog visible.
func New(c *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog: c,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "session")
	s.state = State{Products: c.Products()}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State { return s.state.clone() }

// Properties returns the catalog's properties.
func (s *Session) Properties() []catalog.Property { return s.catalog.Properties() }

// ChooseProperty selects a property by id. Empty, malformed or unknown ids
// leave the state untouched. Otherwise operator, values and scalar are reset
// and the operator and value lists follow the new property.
func (s *Session) ChooseProperty(id string) State {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.State()
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		s.log.WithField("id", id).Debug("ignoring malformed property id")
		return s.State()
	}
	p, ok := s.catalog.Property(n)
	if !ok {
		s.log.WithField("id", n).Debug("ignoring unknown property id")
		return s.State()
	}

	next := s.state
	next.Selection = Selection{Property: &p}
	next.Operators = operators.Resolve(p.Type, s.catalog.Operators())
	next.PropertyValues = append([]string(nil), p.Values...)
	s.state = next

	s.log.WithFields(logrus.Fields{"property": p.Name, "operators": len(next.Operators)}).Debug("property chosen")
	return s.State()
}

// ChooseOperator sets the operator (empty clears it) and resets values and scalar.
func (s *Session) ChooseOperator(id string) State {
	s.state.Selection.OperatorID = strings.TrimSpace(id)
	s.state.Selection.Values = nil
	s.state.Selection.Scalar = nil

	s.log.WithField("operator", s.state.Selection.OperatorID).Debug("operator chosen")
	return s.State()
}

// ChooseValues replaces the discrete selection and recomputes the product list.
// Duplicates are dropped, first occurrence wins.
func (s *Session) ChooseValues(values []string) State {
	seen := make(map[string]bool, len(values))
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	s.state.Selection.Values = unique

	s.recompute()
	return s.State()
}

// ChooseScalar sets the free-form value. Empty input clears it and shows the
// full catalog. For number properties (operators other than "in") the input
// is parsed as a number; input that does not parse behaves like empty input.
func (s *Session) ChooseScalar(raw string) State {
	if raw == "" {
		return s.resetScalar()
	}

	value := catalog.StringValue(raw)
	sel := s.state.Selection
	if sel.Property != nil && sel.Property.Type == catalog.TypeNumber && sel.OperatorID != catalog.OpIn {
		f, ok := catalog.ParseNumber(raw)
		if !ok {
			s.log.WithField("input", raw).Debug("scalar is not a number, filter inactive")
			return s.resetScalar()
		}
		value = catalog.NumberValue(f)
	}
	s.state.Selection.Scalar = &value

	s.recompute()
	return s.State()
}

func (s *Session) resetScalar() State {
	s.state.Selection.Scalar = nil
	s.state.Products = s.catalog.Products()
	return s.State()
}

// Clear empties the selection and the operator and value lists, and shows
// the full catalog again. Clearing twice is the same as clearing once.
func (s *Session) Clear() State {
	s.state = State{Products: s.catalog.Products()}
	s.log.Debug("selection cleared")
	return s.State()
}

// recompute refreshes the product list when the selection is complete;
// otherwise the previous list stays visible.
func (s *Session) recompute() {
	sel := s.state.Selection
	if sel.Property == nil || sel.OperatorID == "" || (len(sel.Values) == 0 && sel.Scalar == nil) {
		return
	}

	cat := s.catalog // one snapshot per recompute
	s.state.Products = filter.Apply(cat.Products(), sel.criteria())

	s.log.WithFields(logrus.Fields{
		"property": sel.Property.Name,
		"operator": sel.OperatorID,
		"matched":  len(s.state.Products),
	}).Debug("products filtered")
}
