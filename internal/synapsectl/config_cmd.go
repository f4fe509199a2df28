package synapsectl

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synconfig"
)

var configScopeFlag string

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "read or write session configuration",
	GroupID: groupConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "set a configuration field",
	Long: `Set a single configuration field by name.

Keys: default_catalog, default_schema, sql_parser_dialect, ticket_ttl,
topic_buffer_batches.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.PersistentFlags().StringVar(&configScopeFlag, "scope", "connection", "config scope: connection or cluster")
	configCmd.AddCommand(configGetCmd, configSetCmd)
}

func parseScope(s string) (enginev1.ConfigScope, error) {
	switch s {
	case "connection":
		return enginev1.ConfigScope_CONNECTION, nil
	case "cluster":
		return enginev1.ConfigScope_CLUSTER, nil
	default:
		return 0, fmt.Errorf("unknown scope %q, want connection or cluster", s)
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	scope, err := parseScope(configScopeFlag)
	if err != nil {
		return err
	}

	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetConfig(ctx, &enginev1.GetConfigReq{Scope: scope})
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg, err := synconfig.UnmarshalBytes(resp.Config)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	fmt.Printf("default_catalog:      %s\n", cfg.DefaultCatalog)
	fmt.Printf("default_schema:       %s\n", cfg.DefaultSchema)
	fmt.Printf("sql_parser_dialect:   %s\n", cfg.SQLParserDialect)
	fmt.Printf("ticket_ttl:           %s\n", cfg.TicketTTL)
	fmt.Printf("topic_buffer_batches: %d\n", cfg.TopicBufferBatches)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	scope, err := parseScope(configScopeFlag)
	if err != nil {
		return err
	}
	key, value := args[0], args[1]

	client, ctx, cleanup, err := dial()
	if err != nil {
		return err
	}
	defer cleanup()

	current, err := client.GetConfig(ctx, &enginev1.GetConfigReq{Scope: scope})
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	cfg, err := synconfig.UnmarshalBytes(current.Config)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	b := cfg.IntoBuilder()
	switch key {
	case "default_catalog":
		b = b.DefaultCatalog(id.Id(value))
	case "default_schema":
		b = b.DefaultSchema(id.Id(value))
	case "sql_parser_dialect":
		b = b.SQLParserDialect(value)
	case "ticket_ttl":
		d, perr := time.ParseDuration(value)
		if perr != nil {
			return fmt.Errorf("invalid ticket_ttl %q: %w", value, perr)
		}
		b = b.TicketTTL(d)
	case "topic_buffer_batches":
		var n int
		if _, perr := fmt.Sscanf(value, "%d", &n); perr != nil {
			return fmt.Errorf("invalid topic_buffer_batches %q: %w", value, perr)
		}
		b = b.TopicBufferBatches(n)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	next := b.Build()
	bytes, err := next.MarshalBytes()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if _, err := client.SetConfig(ctx, &enginev1.Config{Scope: scope, Config: bytes}); err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
