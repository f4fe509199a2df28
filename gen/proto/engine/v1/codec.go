// Package enginev1 holds the wire types for proto/engine/v1/engine.proto.
//
// These types are maintained by hand rather than by protoc-gen-go: the
// engine service's messages are plain Go structs encoded with a small
// grpc codec (jsonCodec, below) instead of real protobuf wire encoding.
// See DESIGN.md for why — in short, byte-faking protoc-gen-go's reflection
// machinery without running protoc is far riskier than a codec that is
// itself a few lines of real, working code. grpc.Server still negotiates
// per-RPC codecs by content-subtype, so this service coexists cleanly on
// the same *grpc.Server as the arrow-go Flight SQL service, which keeps
// its own real protobuf wire format.
package enginev1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype ("application/grpc+json") this
// service's client stubs request for every call.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
