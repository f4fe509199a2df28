package synapsectl

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
)

var (
	tableColumns    string
	tableComment    string
	tableIfNotExist bool
	tableOrReplace  bool
)

var tableCmd = &cobra.Command{
	Use:     "table",
	Short:   "manage tables",
	GroupID: groupDDL,
}

var tableCreateCmd = &cobra.Command{
	Use:   "create <ref>",
	Short: "create a table",
	Long: `Create a table with the given column spec.

The --columns flag is a comma-separated list of name:type pairs, e.g.:

  synapsectl table create default.public.events \
    --columns "id:int64,name:string,seen_at:timestamp"

Supported types: string, int64, int32, float64, bool, timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runTableCreate,
}

var tableGetCmd = &cobra.Command{
	Use:   "get <ref>",
	Short: "show a table's registered schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableGet,
}

func init() {
	tableCreateCmd.Flags().StringVar(&tableColumns, "columns", "", "comma-separated name:type column spec (required)")
	tableCreateCmd.Flags().StringVar(&tableComment, "comment", "", "free-form table comment")
	tableCreateCmd.Flags().BoolVar(&tableIfNotExist, "if-not-exists", false, "do not error if the table already exists")
	tableCreateCmd.Flags().BoolVar(&tableOrReplace, "or-replace", false, "replace an existing table of the same name")
	_ = tableCreateCmd.MarkFlagRequired("columns")

	tableCmd.AddCommand(tableCreateCmd, tableGetCmd)
}

func columnType(name string) (arrow.DataType, error) {
	switch strings.ToLower(name) {
	case "string":
		return arrow.BinaryTypes.String, nil
	case "int64":
		return arrow.PrimitiveTypes.Int64, nil
	case "int32":
		return arrow.PrimitiveTypes.Int32, nil
	case "float64":
		return arrow.PrimitiveTypes.Float64, nil
	case "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "timestamp":
		return arrow.FixedWidthTypes.Timestamp_us, nil
	default:
		return nil, fmt.Errorf("unsupported column type %q", name)
	}
}

func parseColumns(spec string) (*arrow.Schema, error) {
	parts := strings.Split(spec, ",")
	fields := make([]arrow.Field, 0, len(parts))
	for _, part := range parts {
		nameType := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(nameType) != 2 || nameType[0] == "" {
			return nil, fmt.Errorf("invalid column spec %q, want name:type", part)
		}
		dt, err := columnType(nameType[1])
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: nameType[0], Type: dt})
	}
	return arrow.NewSchema(fields, nil), nil
}

func runTableCreate(cmd *cobra.Command, args []string) error {
	schema, err := parseColumns(tableColumns)
	if err != nil {
		return err
	}

	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.CreateTable(ctx, &enginev1.CreateTableReq{
		Table: parseRef(args[0]),
		Info: &enginev1.TableInfo{
			Comment:     tableComment,
			SchemaBytes: flight.SerializeSchema(schema, memory.DefaultAllocator),
		},
		IfNotExists: tableIfNotExist,
		OrReplace:   tableOrReplace,
	})
	if err != nil {
		return fmt.Errorf("create table %q: %w", args[0], err)
	}
	fmt.Printf("table %s.%s.%s created\n", resp.Table.Catalog, resp.Table.Schema, resp.Table.Table)
	return nil
}

func runTableGet(cmd *cobra.Command, args []string) error {
	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetTable(ctx, &enginev1.GetTableReq{Table: parseRef(args[0])})
	if err != nil {
		return fmt.Errorf("get table %q: %w", args[0], err)
	}
	if resp.Table == nil {
		fmt.Printf("table %q not found\n", args[0])
		return nil
	}

	fmt.Printf("table: %s.%s.%s\n", resp.Table.Catalog, resp.Table.Schema, resp.Table.Table)
	if resp.Info.Comment != "" {
		fmt.Printf("comment: %s\n", resp.Info.Comment)
	}
	if len(resp.Info.SchemaBytes) > 0 {
		schema, err := flight.DeserializeSchema(resp.Info.SchemaBytes, memory.DefaultAllocator)
		if err != nil {
			return fmt.Errorf("decode schema: %w", err)
		}
		fmt.Println("columns:")
		for _, f := range schema.Fields() {
			fmt.Printf("  %s: %s\n", f.Name, f.Type)
		}
	}
	return nil
}
