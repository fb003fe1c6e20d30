package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/database"
)

// CatalogRepository implements catalog.Catalog using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Lookup retrieves a product by its barcode.
func (r *CatalogRepository) Lookup(ctx context.Context, barcode string) (*catalog.Product, error) {
	query := `
		SELECT barcode, name, unit_price, COALESCE(category_id, 0)
		FROM products
		WHERE barcode = $1`

	var p catalog.Product
	err := r.pool.QueryRow(ctx, query, barcode).Scan(
		&p.Barcode,
		&p.Name,
		&p.UnitPrice,
		&p.CategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", barcode)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// List returns all products ordered by name.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Product, error) {
	query := `
		SELECT barcode, name, unit_price, COALESCE(category_id, 0)
		FROM products
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.Barcode, &p.Name, &p.UnitPrice, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []catalog.Product{}
	}

	return products, nil
}
