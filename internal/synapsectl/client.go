package synapsectl

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
)

// dial opens a connection to synapsed's Engine Service and returns a client
// plus an auth-stamped context ready for RPC calls, along with a cleanup
// function the caller must defer.
func dial() (enginev1.EngineServiceClient, context.Context, func(), error) {
	conn, err := grpc.NewClient(flagAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", flagAddr, err)
	}

	token := flagToken
	if token == "" {
		token = os.Getenv("SYNAPSE_AUTH_TOKEN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}

	cleanup := func() {
		cancel()
		conn.Close()
	}
	return enginev1.NewEngineServiceClient(conn), ctx, cleanup, nil
}
