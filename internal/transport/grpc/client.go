package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abgdnv/catalog/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls catalog.v1.ProductService and converts its Struct payloads back into DTOs.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetProduct(ctx context.Context, id int64, opts ...grpc.CallOption) (*service.ProductDto, error) {
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, fullMethod("GetProduct"), wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return decodeProduct(out)
}

func (c *Client) ListProducts(ctx context.Context, opts ...grpc.CallOption) ([]service.ProductDto, error) {
	out := &structpb.ListValue{}
	if err := c.cc.Invoke(ctx, fullMethod("ListProducts"), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	raw, err := protojson.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	list := make([]service.ProductDto, 0, len(out.GetValues()))
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return list, nil
}

func (c *Client) CreateProduct(ctx context.Context, product service.ProductCreateDto, opts ...grpc.CallOption) (*service.ProductDto, error) {
	in, err := toStruct(product)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, fullMethod("CreateProduct"), in, out, opts...); err != nil {
		return nil, err
	}
	return decodeProduct(out)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, product service.ProductUpdateDto, opts ...grpc.CallOption) (*service.ProductDto, error) {
	in, err := toStruct(updateRequest{ID: id, ProductUpdateDto: product})
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, fullMethod("UpdateProduct"), in, out, opts...); err != nil {
		return nil, err
	}
	return decodeProduct(out)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, fullMethod("DeleteProduct"), wrapperspb.Int64(id), &emptypb.Empty{}, opts...)
}
