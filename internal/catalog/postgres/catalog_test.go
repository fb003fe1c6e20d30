package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/database"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

var productColumns = []string{"barcode", "name", "unit_price", "category_id"}

func TestCatalogRepository_Lookup(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT barcode, name, unit_price").
		WithArgs("5901234123457").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow("5901234123457", "Cola 0.5L", decimal.RequireFromString("3.50"), int64(1)))

	p, err := repo.Lookup(context.Background(), "5901234123457")

	require.NoError(t, err)
	assert.Equal(t, "Cola 0.5L", p.Name)
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, int64(1), p.CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_Lookup_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT barcode, name, unit_price").
		WithArgs("0000000000000").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Lookup(context.Background(), "0000000000000")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT barcode, name, unit_price").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow("5900000000017", "Bread", decimal.RequireFromString("4.20"), int64(2)).
			AddRow("5901234123457", "Cola 0.5L", decimal.RequireFromString("3.50"), int64(1)))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Bread", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List_Empty(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT barcode, name, unit_price").
		WillReturnRows(pgxmock.NewRows(productColumns))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
