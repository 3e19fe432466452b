// Package operators maps property types to the comparison operators legal for them.
package operators

import "github.com/ivoronin/prodfilter/internal/catalog"

// compatibility lists, in display order, the operators each property type accepts.
var compatibility = map[catalog.PropertyType][]string{
	catalog.TypeString: {
		catalog.OpEquals, catalog.OpAny, catalog.OpNone, catalog.OpIn, catalog.OpContains,
	},
	catalog.TypeNumber: {
		catalog.OpEquals, catalog.OpGreaterThan, catalog.OpLessThan, catalog.OpAny, catalog.OpNone, catalog.OpIn,
	},
	catalog.TypeEnumerated: {
		catalog.OpEquals, catalog.OpAny, catalog.OpNone, catalog.OpIn,
	},
}

// Compatible returns the operator ids legal for t. Unknown types yield nil.
func Compatible(t catalog.PropertyType) []string {
	ids := compatibility[t]
	if ids == nil {
		return nil
	}
	return append([]string(nil), ids...)
}

// Resolve returns the operators of universe that are legal for t, in the
// fixed order of Compatible. Ids missing from universe are skipped.
func Resolve(t catalog.PropertyType, universe []catalog.Operator) []catalog.Operator {
	byID := make(map[string]catalog.Operator, len(universe))
	for _, op := range universe {
		if _, dup := byID[op.ID]; !dup {
			byID[op.ID] = op
		}
	}

	var out []catalog.Operator
	for _, id := range compatibility[t] {
		if op, ok := byID[id]; ok {
			out = append(out, op)
		}
	}
	return out
}

// IsCompatible reports whether operator id is legal for t.
func IsCompatible(t catalog.PropertyType, id string) bool {
	for _, c := range compatibility[t] {
		if c == id {
			return true
		}
	}
	return false
}
