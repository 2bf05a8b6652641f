// Package grpc exposes the product catalog over gRPC.
package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Server struct {
	service  service.ProductService
	validate *validation.Validator
	logger   *slog.Logger
}

var _ ProductServiceServer = (*Server)(nil)

func NewServer(service service.ProductService, validate *validation.Validator, logger *slog.Logger) *Server {
	return &Server{
		service:  service,
		validate: validate,
		logger:   logger.With("component", "grpc"),
	}
}

// Register adds the product service to gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&ServiceDesc, s)
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	found, err := s.service.FindByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toStruct(found)
}

func (s *Server) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := s.service.FindAll(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode products: %v", err)
	}
	out := &structpb.ListValue{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode products: %v", err)
	}
	return out, nil
}

func (s *Server) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var dto service.ProductCreateDto
	if err := fromStruct(req, &dto); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product: %v", err)
	}
	if err := s.validate.Struct(dto); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	created, err := s.service.Create(ctx, dto)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product created successfully", "ID", created.ID, "Name", created.Name)
	return toStruct(created)
}

// updateRequest is the payload of UpdateProduct: the product id next to the fields to change.
type updateRequest struct {
	ID int64 `json:"id"`
	service.ProductUpdateDto
}

func (s *Server) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in updateRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product: %v", err)
	}
	if err := s.validate.Struct(in.ProductUpdateDto); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	updated, err := s.service.Update(ctx, in.ID, in.ProductUpdateDto)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	return toStruct(updated)
}

func (s *Server) DeleteProduct(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.service.DeleteByID(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product deleted successfully", "ID", req.GetValue())
	return &emptypb.Empty{}, nil
}

// toStatus maps an error kind to a gRPC status. Unclassified errors are logged and hidden.
func (s *Server) toStatus(ctx context.Context, err error) error {
	switch perrors.KindOf(err) {
	case perrors.KindValidation:
		return status.Error(codes.InvalidArgument, perrors.Message(err))
	case perrors.KindNotFound:
		return status.Error(codes.NotFound, perrors.Message(err))
	case perrors.KindExists, perrors.KindConstraint:
		return status.Error(codes.AlreadyExists, perrors.Message(err))
	default:
		s.logger.ErrorContext(ctx, "Product service call failed", "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

func fromStruct(in *structpb.Struct, dst any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode product: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode product: %v", err)
	}
	return out, nil
}

func decodeProduct(in *structpb.Struct) (*service.ProductDto, error) {
	var dto service.ProductDto
	if err := fromStruct(in, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &dto, nil
}
