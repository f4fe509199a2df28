package synapsectl

import (
	"fmt"

	"github.com/spf13/cobra"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
)

var catalogIfNotExists bool

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "manage catalogs",
	GroupID: groupDDL,
}

var catalogCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "create a catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogCreate,
}

func init() {
	catalogCreateCmd.Flags().BoolVar(&catalogIfNotExists, "if-not-exists", false, "do not error if the catalog already exists")
	catalogCmd.AddCommand(catalogCreateCmd)
}

func runCatalogCreate(cmd *cobra.Command, args []string) error {
	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.CreateCatalog(ctx, &enginev1.CreateCatalogReq{
		Catalog:     args[0],
		IfNotExists: catalogIfNotExists,
	}); err != nil {
		return fmt.Errorf("create catalog %q: %w", args[0], err)
	}
	fmt.Printf("catalog %q created\n", args[0])
	return nil
}
