package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ivoronin/prodfilter/internal/catalog"
	"github.com/ivoronin/prodfilter/internal/session"
)

// StateView implements Formatter for a session state: a one-line selection
// summary, the match count, and the product table.
type StateView struct {
	Properties []catalog.Property
	State      session.State
}

// Summary describes the selection in one line, e.g.
// `category in [tools kitchenware]` or `weight (oz) greater_than 3`.
func (v *StateView) Summary() string {
	sel := v.State.Selection
	if sel.Empty() {
		return "no filter"
	}

	var parts []string
	if sel.Property != nil {
		parts = append(parts, sel.Property.Name)
	}
	if sel.OperatorID != "" {
		parts = append(parts, sel.OperatorID)
	}
	switch {
	case len(sel.Values) > 0:
		parts = append(parts, "["+strings.Join(sel.Values, " ")+"]")
	case sel.Scalar != nil:
		parts = append(parts, fmt.Sprintf("%q", sel.Scalar.String()))
	}
	return strings.Join(parts, " ")
}

// FormatText renders the summary, the count and the table.
func (v *StateView) FormatText() string {
	var b strings.Builder
	b.WriteString("filter: " + v.Summary() + "\n")
	fmt.Fprintf(&b, "%d product(s)", len(v.State.Products))

	table := (&ProductTable{Properties: v.Properties, Products: v.State.Products}).FormatText()
	if table != "" {
		b.WriteString("\n" + table)
	}
	return b.String()
}

type jsonSelection struct {
	PropertyID *int           `json:"property_id"`
	OperatorID string         `json:"operator_id,omitempty"`
	Values     []string       `json:"values,omitempty"`
	Value      *catalog.Value `json:"value,omitempty"`
}

type jsonState struct {
	Selection      jsonSelection      `json:"selection"`
	Operators      []catalog.Operator `json:"operators"`
	PropertyValues []string           `json:"property_values"`
	Products       []jsonProduct      `json:"products"`
}

// FormatJSON renders the whole state as one JSON object.
func (v *StateView) FormatJSON() ([]byte, error) {
	sel := v.State.Selection
	js := jsonState{
		Selection: jsonSelection{
			OperatorID: sel.OperatorID,
			Values:     sel.Values,
			Value:      sel.Scalar,
		},
		Operators:      v.State.Operators,
		PropertyValues: v.State.PropertyValues,
		Products:       toJSONProducts(v.Properties, v.State.Products),
	}
	if sel.Property != nil {
		id := sel.Property.ID
		js.Selection.PropertyID = &id
	}
	if js.Operators == nil {
		js.Operators = []catalog.Operator{}
	}
	if js.PropertyValues == nil {
		js.PropertyValues = []string{}
	}
	return json.Marshal(js)
}
