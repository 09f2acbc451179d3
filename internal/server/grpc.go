package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "resb.v1.ResourceService"

// Full method names
const (
	MethodGet     = "/" + ServiceName + "/Get"
	MethodKeys    = "/" + ServiceName + "/Keys"
	MethodBackend = "/" + ServiceName + "/Backend"
)

// ResourceServer is the server API for ResourceService. Messages are
// google.protobuf.Struct values so the service needs no generated code.
type ResourceServer interface {
	// Get resolves a key path with locale fallback and returns the value found
	Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	// Keys lists the keys visible from a bundle root or nested table
	Keys(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	// Backend reports the backend kind serving a base name
	Backend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// ResourceServiceDesc describes ResourceService for grpc.Server.RegisterService
var ResourceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResourceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unaryHandler(MethodGet, ResourceServer.Get)},
		{MethodName: "Keys", Handler: unaryHandler(MethodKeys, ResourceServer.Keys)},
		{MethodName: "Backend", Handler: unaryHandler(MethodBackend, ResourceServer.Backend)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "resb/v1/resource.proto",
}

// RegisterResourceServer registers srv with s
func RegisterResourceServer(s grpc.ServiceRegistrar, srv ResourceServer) {
	s.RegisterService(&ResourceServiceDesc, srv)
}

type unaryMethod func(ResourceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ResourceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ResourceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
