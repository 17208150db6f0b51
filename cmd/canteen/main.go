package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Blank import registers every migration before a command runs.
	_ "github.com/campuseats/canteen/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "canteen",
	Short:         "Campus canteen ordering platform",
	Long:          "API server and management commands for the campus canteen ordering platform.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(
		serveCmd,
		routeListCmd,
		migrateCmd,
		migrateRollbackCmd,
		migrateStatusCmd,
		seedCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
