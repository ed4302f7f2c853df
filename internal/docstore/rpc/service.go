package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described by hand over well-known protobuf types, so it needs
// no generated code:
//
//	service DocumentService {
//	  rpc Get(google.protobuf.StringValue) returns (google.protobuf.Value);
//	  rpc Set(google.protobuf.Struct) returns (google.protobuf.Empty);      // {path, value}
//	  rpc Remove(google.protobuf.StringValue) returns (google.protobuf.Empty);
//	  rpc Watch(google.protobuf.StringValue) returns (stream google.protobuf.Value);
//	}
const (
	ServiceName  = "docstore.v1.DocumentService"
	getMethod    = "/" + ServiceName + "/Get"
	setMethod    = "/" + ServiceName + "/Set"
	removeMethod = "/" + ServiceName + "/Remove"
	watchMethod  = "/" + ServiceName + "/Watch"
)

type DocumentServiceServer interface {
	Get(context.Context, *wrapperspb.StringValue) (*structpb.Value, error)
	Set(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Remove(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Watch(*wrapperspb.StringValue, grpc.ServerStream) error
}

func RegisterDocumentServiceServer(s grpc.ServiceRegistrar, srv DocumentServiceServer) {
	s.RegisterService(&DocumentServiceDesc, srv)
}

var DocumentServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: getHandler},
		{MethodName: "Set", Handler: setHandler},
		{MethodName: "Remove", Handler: removeHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "docstore/v1/document_service.proto",
}

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).Get(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func setHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).Set(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: setMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).Set(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func removeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).Remove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: removeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).Remove(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DocumentServiceServer).Watch(in, stream)
}
