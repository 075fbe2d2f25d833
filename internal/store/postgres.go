package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"jewellery-catalog-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrProductNotFound  = errors.New("store: product not found")
	ErrMalformedPayload = errors.New("store: malformed product payload")
)

// PostgresStore reads product documents mirrored from the commerce API into
// catalog.product_documents.
type PostgresStore struct {
	db *sql.DB
}

var _ ProductDocumentReader = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FetchRawProducts returns every active document ordered by id.
func (s *PostgresStore) FetchRawProducts(ctx context.Context) ([]domain.RawProduct, error) {
	query := `
		SELECT id, payload
		FROM catalog.product_documents
		WHERE is_active = TRUE
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: FetchRawProducts failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows, "FetchRawProducts")
}

// FetchRawProductsByIDs returns the active documents among ids, ordered by
// id. Unknown ids are silently absent from the result.
func (s *PostgresStore) FetchRawProductsByIDs(ctx context.Context, ids []int64) ([]domain.RawProduct, error) {
	if len(ids) == 0 {
		return []domain.RawProduct{}, nil
	}
	query := `
		SELECT id, payload
		FROM catalog.product_documents
		WHERE is_active = TRUE AND id = ANY($1)
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("store: FetchRawProductsByIDs failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows, "FetchRawProductsByIDs")
}

// GetRawProduct returns a single active document.
func (s *PostgresStore) GetRawProduct(ctx context.Context, id int64) (domain.RawProduct, error) {
	query := `
		SELECT id, payload
		FROM catalog.product_documents
		WHERE id = $1 AND is_active = TRUE;
	`
	var rowID int64
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&rowID, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetRawProduct failed to scan row: %w", err)
	}
	return decodePayload(rowID, payload)
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanDocuments(rows *sql.Rows, op string) ([]domain.RawProduct, error) {
	docs := make([]domain.RawProduct, 0)
	for rows.Next() {
		var id int64
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("store: %s failed to scan document row: %w", op, err)
		}
		raw, err := decodePayload(id, payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s failed during row iteration: %w", op, err)
	}
	return docs, nil
}

// decodePayload keeps numbers as json.Number so prices survive unchanged
// until normalization. The row id wins over a missing payload id.
func decodePayload(id int64, payload []byte) (domain.RawProduct, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw domain.RawProduct
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: document %d: %v", ErrMalformedPayload, id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document %d is null", ErrMalformedPayload, id)
	}
	if _, ok := raw["id"]; !ok {
		raw["id"] = json.Number(fmt.Sprint(id))
	}
	return raw, nil
}
