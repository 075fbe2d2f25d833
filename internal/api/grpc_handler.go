package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jewellery-catalog-service/internal/catalog"
	"jewellery-catalog-service/internal/metrics"
	"jewellery-catalog-service/internal/pricing"
	"jewellery-catalog-service/internal/store"
)

const catalogServiceName = "jewellery.catalog.v1.CatalogService"

// CatalogServer is the gRPC surface for storefront backends. Messages are
// google.protobuf.Struct so callers need no generated stubs.
type CatalogServer interface {
	SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CalculateCartTotals(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CatalogServiceDesc describes CatalogServer for grpc.Server.RegisterService.
var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchProducts", Handler: unaryStructHandler("SearchProducts", CatalogServer.SearchProducts)},
		{MethodName: "CalculateCartTotals", Handler: unaryStructHandler("CalculateCartTotals", CatalogServer.CalculateCartTotals)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jewellery/catalog/v1/catalog.proto",
}

// unaryStructHandler has the shape of grpc.MethodDesc.Handler.
func unaryStructHandler(
	method string,
	call func(CatalogServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + catalogServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterCatalogServer registers srv on s.
func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

// GRPCHandler implements CatalogServer on top of the catalog service.
type GRPCHandler struct {
	catalog  CatalogService
	validate *validator.Validate
	metrics  *metrics.CatalogMetrics
	log      zerolog.Logger
}

var _ CatalogServer = (*GRPCHandler)(nil)

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(svc CatalogService, m *metrics.CatalogMetrics, log zerolog.Logger) *GRPCHandler {
	return &GRPCHandler{
		catalog:  svc,
		validate: validator.New(),
		metrics:  m,
		log:      log.With().Str("component", "grpc").Logger(),
	}
}

// --- Helper: Error Mapping ---
func (s *GRPCHandler) mapErrorToGrpcStatus(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, store.ErrProductNotFound):
		return status.Errorf(codes.NotFound, "%s: product not found", op)
	default:
		s.log.Error().Err(err).Str("op", op).Msg("gRPC operation failed")
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}

// SearchProducts expects {"query": string, "limit": number} and returns
// {"products": [...], "total": number}.
func (s *GRPCHandler) SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	query, _ := fields["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, status.Error(codes.InvalidArgument, "query is required")
	}
	limit := defaultSearchLimit
	if n, ok := pricing.ToNumber(fields["limit"]); ok && n > 0 {
		limit = min(int(n), maxSearchLimit)
	}

	products, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "SearchProducts")
	}
	s.metrics.IncQuery("search")

	ranked := catalog.RankBySearch(products, query)
	hits := make([]map[string]any, 0, min(limit, len(ranked)))
	for i := range ranked[:min(limit, len(ranked))] {
		p := &ranked[i]
		hits = append(hits, map[string]any{
			"id":             p.ID,
			"name":           p.Name,
			"category":       p.Category,
			"price":          p.Price,
			"original_price": p.OriginalPrice,
			"image_url":      p.ImageURL,
			"in_stock":       p.InStock,
			"score":          catalog.Score(p, query),
		})
	}
	return toStruct(map[string]any{"products": hits, "total": len(ranked)})
}

// CalculateCartTotals accepts the same body as POST /api/v1/cart/totals.
func (s *GRPCHandler) CalculateCartTotals(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input CartTotalsInput
	if err := fromStruct(req, &input); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid cart: %v", err)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation failed: %v", err)
	}

	resp, err := cartTotals(ctx, s.catalog, input)
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "CalculateCartTotals")
	}
	s.metrics.IncQuery("cart")
	return toStruct(resp)
}

// toStruct converts v through its JSON form so wire names match the HTTP API.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, dst any) error {
	if s == nil {
		return fmt.Errorf("empty request")
	}
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
