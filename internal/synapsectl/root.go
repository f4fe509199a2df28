// Package synapsectl implements the synapsectl administrative CLI: catalog,
// schema, table, and session-config commands against a running synapsed's
// Engine Service, grounded on the teacher's internal/cmd package layout —
// one cobra.Command per file, a shared rootCmd, no TUI rendering layer.
package synapsectl

import (
	"github.com/spf13/cobra"
)

const (
	groupDDL    = "ddl"
	groupConfig = "config"
)

var (
	flagAddr  string
	flagToken string
)

var rootCmd = &cobra.Command{
	Use:   "synapsectl",
	Short: "administer a synapsed cluster",
	Long: `synapsectl - administrative CLI for the synapse Engine Service

  - create catalogs, schemas, and tables
  - inspect a table's registered schema
  - read and write session configuration`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupDDL, Title: "DDL Commands:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "127.0.0.1:8815", "synapsed Engine Service address")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (defaults to $SYNAPSE_AUTH_TOKEN)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(configCmd)
}
