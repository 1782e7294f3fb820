// Command crm-api runs the CRM person service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/crm-api/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "crm-api",
		Short:         "CRM REST API - person records over a document store",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
