package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/prodfilter/internal/version"
)

func newVersionCmd() *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and supported catalog schemas",
		Long:  `Display prodfilter version and the catalog schema versions it reads.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonMode {
				info := struct {
					Version string `json:"version"`
					Schemas string `json:"catalog_schemas"`
				}{
					Version: Version,
					Schemas: version.SupportedSchemas,
				}
				out, err := json.Marshal(info)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "prodfilter %s (catalog schema %s)\n", Version, version.SupportedSchemas)
			return err
		},
	}
	cmd.Flags().BoolVarP(&jsonMode, "json", "j", false, "Output in JSON format")
	return cmd
}
