package synapsectl

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
)

var schemaIfNotExists bool

var schemaCmd = &cobra.Command{
	Use:     "schema",
	Short:   "manage schemas",
	GroupID: groupDDL,
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create <[catalog.]schema>",
	Short: "create a schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaCreate,
}

func init() {
	schemaCreateCmd.Flags().BoolVar(&schemaIfNotExists, "if-not-exists", false, "do not error if the schema already exists")
	schemaCmd.AddCommand(schemaCreateCmd)
}

func runSchemaCreate(cmd *cobra.Command, args []string) error {
	catalog, schema := "", args[0]
	if parts := strings.SplitN(args[0], ".", 2); len(parts) == 2 {
		catalog, schema = parts[0], parts[1]
	}

	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.CreateSchema(ctx, &enginev1.CreateSchemaReq{
		Catalog:     catalog,
		Schema:      schema,
		IfNotExists: schemaIfNotExists,
	}); err != nil {
		return fmt.Errorf("create schema %q: %w", args[0], err)
	}
	fmt.Printf("schema %q created\n", args[0])
	return nil
}
