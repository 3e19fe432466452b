package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/prodfilter/internal/catalog"
	"github.com/ivoronin/prodfilter/internal/filter"
	"github.com/ivoronin/prodfilter/internal/operators"
	"github.com/ivoronin/prodfilter/internal/output"
	"github.com/ivoronin/prodfilter/internal/session"
)

type filterOptions struct {
	property string
	operator string
	values   []string
	scalar   string
	expr     string
	jsonMode bool

	scalarSet bool // --value given, even if empty
	fromExpr  bool // value came from --expr
}

func newFilterCmd(a *app) *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List products matching one property filter",
		Long: `Filter the catalog by a single property, operator and value.

The filter is given either with --property/--operator and --values or --value,
or as one expression with --expr. Without a value the whole catalog is listed.`,
		Args: cobra.NoArgs,
		Example: `  prodfilter filter -p category -o in -v tools -v kitchenware
  prodfilter filter -p "weight (oz)" -o greater_than -s 3
  prodfilter filter -e 'color contains bl'
  prodfilter filter -e '"weight (oz)" < 4' -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.scalarSet = cmd.Flags().Changed("value")
			return runFilter(cmd, a, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.property, "property", "p", "", "Property id or name")
	flags.StringVarP(&opts.operator, "operator", "o", "", "Operator id")
	flags.StringSliceVarP(&opts.values, "values", "v", nil, "Values from the property's value set (repeatable, comma separated)")
	flags.StringVarP(&opts.scalar, "value", "s", "", "Free-form value")
	flags.StringVarP(&opts.expr, "expr", "e", "", `Filter expression, e.g. 'category in tools,kitchenware'`)
	flags.BoolVarP(&opts.jsonMode, "json", "j", false, "Output in JSON format")

	cmd.MarkFlagsMutuallyExclusive("expr", "property")
	cmd.MarkFlagsMutuallyExclusive("expr", "operator")
	cmd.MarkFlagsMutuallyExclusive("values", "value")
	return cmd
}

func runFilter(cmd *cobra.Command, a *app, opts *filterOptions) error {
	if opts.expr != "" {
		if err := opts.applyExpr(); err != nil {
			return err
		}
	}
	if opts.property == "" || opts.operator == "" {
		return fmt.Errorf("a property and an operator are required (use --property/--operator or --expr)")
	}

	c, err := a.loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	p, err := resolveProperty(c, opts.property)
	if err != nil {
		return err
	}
	if err := opts.validate(p); err != nil {
		return err
	}

	s := session.New(c, session.WithLogger(a.log))
	s.ChooseProperty(strconv.Itoa(p.ID))
	state := s.ChooseOperator(opts.operator)
	switch {
	case len(opts.values) > 0:
		state = s.ChooseValues(opts.values)
	case opts.scalarSet:
		state = s.ChooseScalar(opts.scalar)
	}

	return printFormatted(cmd, &output.ProductTable{Properties: c.Properties(), Products: state.Products}, opts.jsonMode)
}

// applyExpr fills property, operator and value from the expression. The
// value is recorded as a scalar; validate turns it into a value list for
// properties with a closed value set.
func (o *filterOptions) applyExpr() error {
	if len(o.values) > 0 || o.scalarSet {
		return fmt.Errorf("--expr cannot be combined with --values or --value")
	}
	e, err := filter.ParseExpr(o.expr)
	if err != nil {
		return err
	}
	o.property = e.Property
	o.operator = e.Operator
	if e.Value != "" {
		o.scalar = e.Value
		o.scalarSet = true
		o.fromExpr = true
	}
	return nil
}

// validate checks the options against the resolved property.
func (o *filterOptions) validate(p catalog.Property) error {
	o.operator = strings.TrimSpace(o.operator)
	if !operators.IsCompatible(p.Type, o.operator) {
		return fmt.Errorf("operator %q cannot be used with %s property %q (want one of %s)",
			o.operator, p.Type, p.Name, strings.Join(operators.Compatible(p.Type), ", "))
	}

	if o.fromExpr && p.HasClosedValues() {
		o.values = splitValues(o.scalar)
		o.scalar, o.scalarSet = "", false
	}

	if len(o.values) > 0 {
		if !p.HasClosedValues() {
			return fmt.Errorf("property %q has no value set, use --value", p.Name)
		}
		for _, v := range o.values {
			if !slices.Contains(p.Values, v) {
				return fmt.Errorf("%q is not a value of property %q (want one of %s)", v, p.Name, strings.Join(p.Values, ", "))
			}
		}
	}

	if o.scalarSet && p.Type == catalog.TypeNumber && o.operator != catalog.OpIn {
		if _, ok := catalog.ParseNumber(o.scalar); !ok {
			return fmt.Errorf("value %q is not a number", o.scalar)
		}
	}
	return nil
}

func splitValues(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
