package store

import (
	"context"

	"jewellery-catalog-service/internal/domain"
)

// ProductDocumentReader reads mirrored commerce product documents.
type ProductDocumentReader interface {
	FetchRawProducts(ctx context.Context) ([]domain.RawProduct, error)
	FetchRawProductsByIDs(ctx context.Context, ids []int64) ([]domain.RawProduct, error)
	GetRawProduct(ctx context.Context, id int64) (domain.RawProduct, error)
	Ping(ctx context.Context) error
	Close() error
}
