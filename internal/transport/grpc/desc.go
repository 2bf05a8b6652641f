package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "catalog.v1.ProductService"

// ProductServiceServer is the server API of catalog.v1.ProductService.
// Products travel as google.protobuf.Struct values with the same fields as the HTTP payloads.
type ProductServiceServer interface {
	GetProduct(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListProducts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// ServiceDesc describes catalog.v1.ProductService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: unaryHandler[wrapperspb.Int64Value]("GetProduct", ProductServiceServer.GetProduct)},
		{MethodName: "ListProducts", Handler: unaryHandler[emptypb.Empty]("ListProducts", ProductServiceServer.ListProducts)},
		{MethodName: "CreateProduct", Handler: unaryHandler[structpb.Struct]("CreateProduct", ProductServiceServer.CreateProduct)},
		{MethodName: "UpdateProduct", Handler: unaryHandler[structpb.Struct]("UpdateProduct", ProductServiceServer.UpdateProduct)},
		{MethodName: "DeleteProduct", Handler: unaryHandler[wrapperspb.Int64Value]("DeleteProduct", ProductServiceServer.DeleteProduct)},
	},
	Streams: []grpc.StreamDesc{},
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryHandler builds the grpc.MethodHandler that decodes a Req, runs the
// interceptor chain and dispatches to call.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](method string, call func(ProductServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(ProductServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}
