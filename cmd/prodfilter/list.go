package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/prodfilter/internal/operators"
	"github.com/ivoronin/prodfilter/internal/output"
)

func newPropertiesCmd(a *app) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "List catalog properties",
		Long:  `Display every property with its type and closed value set, if any.`,
		Args:  cobra.NoArgs,
		Example: `  prodfilter properties
  prodfilter properties -j --data catalog.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return printFormatted(cmd, &output.PropertyList{Properties: c.Properties()}, jsonMode)
		},
	}
	cmd.Flags().BoolVarP(&jsonMode, "json", "j", false, "Output in JSON format")
	return cmd
}

func newOperatorsCmd(a *app) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "operators <property>",
		Short: "List operators usable with a property",
		Long:  `Display the operators compatible with a property's type. The property is given by id or name.`,
		Args:  cobra.ExactArgs(1),
		Example: `  prodfilter operators 2
  prodfilter operators category -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := resolveProperty(c, args[0])
			if err != nil {
				return err
			}
			ops := operators.Resolve(p.Type, c.Operators())
			return printFormatted(cmd, &output.OperatorList{Operators: ops}, jsonMode)
		},
	}
	cmd.Flags().BoolVarP(&jsonMode, "json", "j", false, "Output in JSON format")
	return cmd
}

// printFormatted writes f to the command's stdout. Empty text output prints nothing.
func printFormatted(cmd *cobra.Command, f output.Formatter, jsonMode bool) error {
	result, err := output.FormatOutput(f, output.FormatFor(jsonMode))
	if err != nil {
		return err
	}
	if result == "" {
		return nil // Empty result is not an error
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
