package enginev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	EngineService_ServiceName = "engine.v1.EngineService"
)

// EngineServiceClient is the client API for EngineService.
type EngineServiceClient interface {
	CreateCatalog(ctx context.Context, in *CreateCatalogReq, opts ...grpc.CallOption) (*CreateCatalogResp, error)
	CreateSchema(ctx context.Context, in *CreateSchemaReq, opts ...grpc.CallOption) (*CreateSchemaResp, error)
	CreateTable(ctx context.Context, in *CreateTableReq, opts ...grpc.CallOption) (*CreateTableResp, error)
	CreateTopic(ctx context.Context, in *CreateTopicReq, opts ...grpc.CallOption) (*CreateTopicResp, error)
	CreateView(ctx context.Context, in *CreateViewReq, opts ...grpc.CallOption) (*CreateViewResp, error)
	GetTable(ctx context.Context, in *GetTableReq, opts ...grpc.CallOption) (*GetTableResp, error)
	SetConfig(ctx context.Context, in *Config, opts ...grpc.CallOption) (*SetConfigResp, error)
	GetConfig(ctx context.Context, in *GetConfigReq, opts ...grpc.CallOption) (*GetConfigResp, error)
}

type engineServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEngineServiceClient wraps cc for EngineService calls. Every call is
// made with content-subtype "json" (see codec.go), regardless of what the
// caller passes in opts.
func NewEngineServiceClient(cc grpc.ClientConnInterface) EngineServiceClient {
	return &engineServiceClient{cc}
}

func (c *engineServiceClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *engineServiceClient) CreateCatalog(ctx context.Context, in *CreateCatalogReq, opts ...grpc.CallOption) (*CreateCatalogResp, error) {
	out := new(CreateCatalogResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/CreateCatalog", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) CreateSchema(ctx context.Context, in *CreateSchemaReq, opts ...grpc.CallOption) (*CreateSchemaResp, error) {
	out := new(CreateSchemaResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/CreateSchema", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) CreateTable(ctx context.Context, in *CreateTableReq, opts ...grpc.CallOption) (*CreateTableResp, error) {
	out := new(CreateTableResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/CreateTable", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) CreateTopic(ctx context.Context, in *CreateTopicReq, opts ...grpc.CallOption) (*CreateTopicResp, error) {
	out := new(CreateTopicResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/CreateTopic", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) CreateView(ctx context.Context, in *CreateViewReq, opts ...grpc.CallOption) (*CreateViewResp, error) {
	out := new(CreateViewResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/CreateView", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) GetTable(ctx context.Context, in *GetTableReq, opts ...grpc.CallOption) (*GetTableResp, error) {
	out := new(GetTableResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/GetTable", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) SetConfig(ctx context.Context, in *Config, opts ...grpc.CallOption) (*SetConfigResp, error) {
	out := new(SetConfigResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/SetConfig", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) GetConfig(ctx context.Context, in *GetConfigReq, opts ...grpc.CallOption) (*GetConfigResp, error) {
	out := new(GetConfigResp)
	if err := c.invoke(ctx, "/engine.v1.EngineService/GetConfig", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EngineServiceServer is the server API for EngineService.
type EngineServiceServer interface {
	CreateCatalog(context.Context, *CreateCatalogReq) (*CreateCatalogResp, error)
	CreateSchema(context.Context, *CreateSchemaReq) (*CreateSchemaResp, error)
	CreateTable(context.Context, *CreateTableReq) (*CreateTableResp, error)
	CreateTopic(context.Context, *CreateTopicReq) (*CreateTopicResp, error)
	CreateView(context.Context, *CreateViewReq) (*CreateViewResp, error)
	GetTable(context.Context, *GetTableReq) (*GetTableResp, error)
	SetConfig(context.Context, *Config) (*SetConfigResp, error)
	GetConfig(context.Context, *GetConfigReq) (*GetConfigResp, error)
}

// UnimplementedEngineServiceServer must be embedded by every real
// implementation to stay forward-compatible with service additions.
type UnimplementedEngineServiceServer struct{}

func (UnimplementedEngineServiceServer) CreateCatalog(context.Context, *CreateCatalogReq) (*CreateCatalogResp, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCatalog not implemented")
}
func (UnimplementedEngineServiceServer) CreateSchema(context.Context, *CreateSchemaReq) (*CreateSchemaResp, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSchema not implemented")
}
func (UnimplementedEngineServiceServer) CreateTable(context.Context, *CreateTableReq) (*CreateTableResp, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTable not implemented")
}
func (UnimplementedEngineServiceServer) CreateTopic(context.Context, *CreateTopicReq) (*CreateTopicResp, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTopic not implemented")
}
func (UnimplementedEngineServiceServer) CreateView(context.Context, *CreateViewReq) (*CreateViewResp, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateView not implemented")
}
func (UnimplementedEngineServiceServer) GetTable(context.Context, *GetTableReq) (*GetTableResp, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTable not implemented")
}
func (UnimplementedEngineServiceServer) SetConfig(context.Context, *Config) (*SetConfigResp, error) {
	return nil, status.Error(codes.Unimplemented, "method SetConfig not implemented")
}
func (UnimplementedEngineServiceServer) GetConfig(context.Context, *GetConfigReq) (*GetConfigResp, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConfig not implemented")
}

func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&EngineService_ServiceDesc, srv)
}

func _EngineService_CreateCatalog_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateCatalogReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).CreateCatalog(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/CreateCatalog"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).CreateCatalog(ctx, req.(*CreateCatalogReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_CreateSchema_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateSchemaReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).CreateSchema(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/CreateSchema"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).CreateSchema(ctx, req.(*CreateSchemaReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_CreateTable_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateTableReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).CreateTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/CreateTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).CreateTable(ctx, req.(*CreateTableReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_CreateTopic_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateTopicReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).CreateTopic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/CreateTopic"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).CreateTopic(ctx, req.(*CreateTopicReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_CreateView_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateViewReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).CreateView(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/CreateView"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).CreateView(ctx, req.(*CreateViewReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_GetTable_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetTableReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).GetTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/GetTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).GetTable(ctx, req.(*GetTableReq))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_SetConfig_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Config)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).SetConfig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/SetConfig"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).SetConfig(ctx, req.(*Config))
	}
	return interceptor(ctx, in, info, handler)
}

func _EngineService_GetConfig_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetConfigReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).GetConfig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/engine.v1.EngineService/GetConfig"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServiceServer).GetConfig(ctx, req.(*GetConfigReq))
	}
	return interceptor(ctx, in, info, handler)
}

// EngineService_ServiceDesc is the grpc.ServiceDesc for EngineService.
var EngineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: EngineService_ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateCatalog", Handler: _EngineService_CreateCatalog_Handler},
		{MethodName: "CreateSchema", Handler: _EngineService_CreateSchema_Handler},
		{MethodName: "CreateTable", Handler: _EngineService_CreateTable_Handler},
		{MethodName: "CreateTopic", Handler: _EngineService_CreateTopic_Handler},
		{MethodName: "CreateView", Handler: _EngineService_CreateView_Handler},
		{MethodName: "GetTable", Handler: _EngineService_GetTable_Handler},
		{MethodName: "SetConfig", Handler: _EngineService_SetConfig_Handler},
		{MethodName: "GetConfig", Handler: _EngineService_GetConfig_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "engine/v1/engine.proto",
}
