package engineservice_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/engine"
	"github.com/synapseql/synapse/internal/engineservice"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/planexec"
	"github.com/synapseql/synapse/internal/synconfig"
)

type singleContext struct{ ec *engine.Context }

func (s singleContext) Context(context.Context) (*engine.Context, error) { return s.ec, nil }

func newTestEngineContext(t *testing.T) *engine.Context {
	t.Helper()
	cl := catalog.NewCluster()
	if _, err := cl.CreateCatalog("default", false); err != nil {
		t.Fatal(err)
	}
	if _, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: "default", Schema: "public"}, false); err != nil {
		t.Fatal(err)
	}
	backend := planexec.NewMemoryBackend(cl)
	ec, err := engine.New(cl, backend, synconfig.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return ec
}

func testSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
}

func startTestServer(t *testing.T, ec *engine.Context) (enginev1.EngineServiceClient, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	server := grpc.NewServer()
	enginev1.RegisterEngineServiceServer(server, engineservice.NewServer(singleContext{ec}, nil, nil))

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		server.Stop()
		listener.Close()
		t.Fatalf("failed to create client: %v", err)
	}

	cleanup := func() {
		conn.Close()
		server.Stop()
		listener.Close()
	}

	return enginev1.NewEngineServiceClient(conn), cleanup
}

func TestCreateTableThenGetTableRoundTrips(t *testing.T) {
	ec := newTestEngineContext(t)
	client, cleanup := startTestServer(t, ec)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	schemaBytes := flight.SerializeSchema(testSchema(), memory.DefaultAllocator)

	createResp, err := client.CreateTable(ctx, &enginev1.CreateTableReq{
		Table: &enginev1.TableRef{Catalog: "default", Schema: "public", Table: "events"},
		Info:  &enginev1.TableInfo{Comment: "raw events", SchemaBytes: schemaBytes},
	})
	require.NoError(t, err)
	require.Equal(t, "events", createResp.Table.Table)

	getResp, err := client.GetTable(ctx, &enginev1.GetTableReq{
		Table: &enginev1.TableRef{Catalog: "default", Schema: "public", Table: "events"},
	})
	require.NoError(t, err)
	require.NotNil(t, getResp.Table, "GetTable should populate both table and info for an existing table")
	require.NotNil(t, getResp.Info, "GetTable should populate both table and info for an existing table")
	require.Equal(t, "raw events", getResp.Info.Comment)
}

func TestGetTableNotFoundLeavesBothFieldsNil(t *testing.T) {
	ec := newTestEngineContext(t)
	client, cleanup := startTestServer(t, ec)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.GetTable(ctx, &enginev1.GetTableReq{
		Table: &enginev1.TableRef{Catalog: "default", Schema: "public", Table: "nope"},
	})
	require.NoError(t, err)
	require.Nil(t, resp.Table)
	require.Nil(t, resp.Info)
}

func TestCreateTableRejectsDuplicateWithoutIfNotExists(t *testing.T) {
	ec := newTestEngineContext(t)
	client, cleanup := startTestServer(t, ec)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := &enginev1.CreateTableReq{
		Table: &enginev1.TableRef{Catalog: "default", Schema: "public", Table: "events"},
		Info:  &enginev1.TableInfo{SchemaBytes: flight.SerializeSchema(testSchema(), memory.DefaultAllocator)},
	}
	_, err := client.CreateTable(ctx, req)
	require.NoError(t, err)

	_, err = client.CreateTable(ctx, req)
	require.Error(t, err, "expected second CreateTable without if_not_exists to fail")

	req.IfNotExists = true
	_, err = client.CreateTable(ctx, req)
	require.NoError(t, err, "CreateTable with if_not_exists should not fail on an existing table")
}

func TestSetConfigAndGetConfigRoundTripByScope(t *testing.T) {
	ec := newTestEngineContext(t)
	client, cleanup := startTestServer(t, ec)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := synconfig.Default().IntoBuilder().DefaultSchema("analytics").Build()
	b, err := cfg.MarshalBytes()
	require.NoError(t, err)

	_, err = client.SetConfig(ctx, &enginev1.Config{Scope: enginev1.ConfigScope_CONNECTION, Config: b})
	require.NoError(t, err)

	getResp, err := client.GetConfig(ctx, &enginev1.GetConfigReq{Scope: enginev1.ConfigScope_CONNECTION})
	require.NoError(t, err)
	got, err := synconfig.UnmarshalBytes(getResp.Config)
	require.NoError(t, err)
	require.Equal(t, id.Id("analytics"), got.DefaultSchema)

	clusterResp, err := client.GetConfig(ctx, &enginev1.GetConfigReq{Scope: enginev1.ConfigScope_CLUSTER})
	require.NoError(t, err)
	clusterCfg, err := synconfig.UnmarshalBytes(clusterResp.Config)
	require.NoError(t, err)
	require.Equal(t, id.Id("public"), clusterCfg.DefaultSchema,
		"cluster config should be untouched by a CONNECTION-scoped SetConfig")
}

func TestCreateCatalogRejectsEmptyName(t *testing.T) {
	ec := newTestEngineContext(t)
	client, cleanup := startTestServer(t, ec)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.CreateCatalog(ctx, &enginev1.CreateCatalogReq{})
	require.Error(t, err, "expected an error for an empty catalog name")
}

func TestBearerAuthInterceptorRejectsMissingToken(t *testing.T) {
	ec := newTestEngineContext(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(engineservice.BearerAuthInterceptor(engineservice.StaticToken("secret"))))
	enginev1.RegisterEngineServiceServer(server, engineservice.NewServer(singleContext{ec}, nil, nil))
	go func() { _ = server.Serve(listener) }()
	defer func() {
		server.Stop()
		listener.Close()
	}()

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer conn.Close()
	client := enginev1.NewEngineServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = client.CreateCatalog(ctx, &enginev1.CreateCatalogReq{Catalog: "x"})
	require.Error(t, err, "expected an unauthenticated error without a bearer token")

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer secret")
	_, err = client.CreateCatalog(authed, &enginev1.CreateCatalogReq{Catalog: "x"})
	require.NoError(t, err, "CreateCatalog with a valid bearer token should succeed")
}
