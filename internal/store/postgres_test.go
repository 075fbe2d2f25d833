package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db)
	require.NotNil(t, store)

	return db, mock, store
}

var fetchAllQuery = regexp.QuoteMeta(`
		SELECT id, payload
		FROM catalog.product_documents
		WHERE is_active = TRUE
		ORDER BY id ASC;
	`)

func TestPostgresStore_FetchRawProducts(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "payload"}).
		AddRow(int64(1), []byte(`{"id": 1, "name": "Gold Ring", "selling_price": 1499.99}`)).
		AddRow(int64(2), []byte(`{"name": "Pearl Studs", "sellingPrice": "899"}`))
	mock.ExpectQuery(fetchAllQuery).WillReturnRows(rows)

	docs, err := store.FetchRawProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, json.Number("1"), docs[0]["id"])
	assert.Equal(t, json.Number("1499.99"), docs[0]["selling_price"], "numbers keep their source text")
	assert.Equal(t, json.Number("2"), docs[1]["id"], "row id fills a missing payload id")
	assert.Equal(t, "899", docs[1]["sellingPrice"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchRawProducts_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(fetchAllQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "payload"}))

	docs, err := store.FetchRawProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchRawProducts_MalformedPayload(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "payload"}).
		AddRow(int64(1), []byte(`{"id": 1}`)).
		AddRow(int64(9), []byte(`{"id": 9,`))
	mock.ExpectQuery(fetchAllQuery).WillReturnRows(rows)

	_, err := store.FetchRawProducts(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Contains(t, err.Error(), "document 9")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchRawProducts_QueryError(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(fetchAllQuery).WillReturnError(dbErr)

	_, err := store.FetchRawProducts(context.Background())

	assert.ErrorIs(t, err, dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchRawProductsByIDs(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT id, payload
		FROM catalog.product_documents
		WHERE is_active = TRUE AND id = ANY($1)
		ORDER BY id ASC;
	`)
	rows := sqlmock.NewRows([]string{"id", "payload"}).
		AddRow(int64(3), []byte(`{"id": 3, "name": "Charm"}`))
	mock.ExpectQuery(query).WithArgs(pq.Array([]int64{3, 42})).WillReturnRows(rows)

	docs, err := store.FetchRawProductsByIDs(context.Background(), []int64{3, 42})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Charm", docs[0]["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchRawProductsByIDs_NoIDs(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	docs, err := store.FetchRawProductsByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, docs)
	require.NoError(t, mock.ExpectationsWereMet(), "no query is issued")
}

func TestPostgresStore_GetRawProduct(t *testing.T) {
	query := regexp.QuoteMeta(`
		SELECT id, payload
		FROM catalog.product_documents
		WHERE id = $1 AND is_active = TRUE;
	`)

	t.Run("found", func(t *testing.T) {
		db, mock, store := newMockDBAndStore(t)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "payload"}).
			AddRow(int64(5), []byte(`{"id": 5, "name": "Anklet"}`))
		mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnRows(rows)

		doc, err := store.GetRawProduct(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "Anklet", doc["name"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, store := newMockDBAndStore(t)
		defer db.Close()

		mock.ExpectQuery(query).WithArgs(int64(6)).WillReturnError(sql.ErrNoRows)

		_, err := store.GetRawProduct(context.Background(), 6)

		assert.ErrorIs(t, err, ErrProductNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null payload", func(t *testing.T) {
		db, mock, store := newMockDBAndStore(t)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "payload"}).AddRow(int64(7), []byte(`null`))
		mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnRows(rows)

		_, err := store.GetRawProduct(context.Background(), 7)

		assert.ErrorIs(t, err, ErrMalformedPayload)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing()
	require.NoError(t, NewPostgresStore(mockDB).Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, NewPostgresStore(mockDB).Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
