package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Exit codes.
const (
	ExitSuccess    = 0
	ExitInputError = 2
)

// newRootCmd builds the full command tree. Each call returns an
// independent tree with its own configuration and logger.
func newRootCmd() *cobra.Command {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:   "prodfilter",
		Short: "Filter a product catalog by property, operator and value",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	a.bindFlags(rootCmd)

	rootCmd.AddCommand(newPropertiesCmd(a))
	rootCmd.AddCommand(newOperatorsCmd(a))
	rootCmd.AddCommand(newFilterCmd(a))
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func exitCode(err error) int {
	if err != nil {
		return ExitInputError
	}
	return ExitSuccess
}

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}
