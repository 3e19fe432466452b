package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load a catalog into a database",
		Long: `Read the catalog from --data (or the built-in sample) and store it in the
database given by --db-dsn, replacing any catalog stored there.`,
		Args: cobra.NoArgs,
		Example: `  prodfilter import --data catalog.json --db-dsn catalog.db
  prodfilter import --db-driver pgx --db-dsn postgres://localhost/shop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := a.v.GetString(keyDBDSN)
			if dsn == "" {
				return fmt.Errorf("--%s is required", keyDBDSN)
			}

			c, err := a.loadCatalogFrom(cmd.Context(), false)
			if err != nil {
				return err
			}

			driver := a.v.GetString(keyDBDriver)
			db, err := catalog.OpenDB(cmd.Context(), driver, dsn)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			store := catalog.NewStore(db, catalog.StyleFor(driver))
			if err := store.Init(cmd.Context()); err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), c); err != nil {
				return err
			}

			a.log.WithField("driver", driver).Info("catalog imported")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d properties, %d operators, %d products\n",
				len(c.Properties()), len(c.Operators()), len(c.Products()))
			return err
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a JSON document",
		Long:  `Write the configured catalog (from --data or --db-dsn) as a JSON catalog document.`,
		Args:  cobra.NoArgs,
		Example: `  prodfilter export > catalog.json
  prodfilter export --db-dsn catalog.db -o catalog.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "" {
				return catalog.EncodeJSON(cmd.OutOrStdout(), c)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := catalog.EncodeJSON(f, c); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
