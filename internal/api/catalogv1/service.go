// Package catalogv1 declares the restu.catalog.v1.VariationService gRPC API.
// Messages travel as google.protobuf.Struct and are converted to the Go types
// below with Encode and Decode.
package catalogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "restu.catalog.v1.VariationService"

const (
	MethodRegenerate       = "Regenerate"
	MethodAddVariation     = "AddVariation"
	MethodBulkEdit         = "BulkEdit"
	MethodDeleteVariations = "DeleteVariations"
	MethodListVariations   = "ListVariations"
	MethodSetAttributes    = "SetAttributes"
	MethodGetProduct       = "GetProduct"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type VariationServiceServer interface {
	Regenerate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddVariation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BulkEdit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteVariations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListVariations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetAttributes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv VariationServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(VariationServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

var VariationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VariationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegenerate, VariationServiceServer.Regenerate),
		unary(MethodAddVariation, VariationServiceServer.AddVariation),
		unary(MethodBulkEdit, VariationServiceServer.BulkEdit),
		unary(MethodDeleteVariations, VariationServiceServer.DeleteVariations),
		unary(MethodListVariations, VariationServiceServer.ListVariations),
		unary(MethodSetAttributes, VariationServiceServer.SetAttributes),
		unary(MethodGetProduct, VariationServiceServer.GetProduct),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "restu/catalog/v1/variation.proto",
}

func RegisterVariationServiceServer(s grpc.ServiceRegistrar, srv VariationServiceServer) {
	s.RegisterService(&VariationServiceDesc, srv)
}

// VariationServiceClient calls the service with raw Struct messages.
type VariationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVariationServiceClient(cc grpc.ClientConnInterface) *VariationServiceClient {
	return &VariationServiceClient{cc: cc}
}

func (c *VariationServiceClient) Invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Call encodes req, invokes method and decodes the reply into resp.
func (c *VariationServiceClient) Call(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out, err := c.Invoke(ctx, method, in, opts...)
	if err != nil {
		return err
	}
	return Decode(out, resp)
}
