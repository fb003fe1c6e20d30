// Package catalog defines the product lookup port consumed by the cart.
// The catalog itself is maintained elsewhere; from the checkout engine's
// perspective it is a read-only mapping from barcode to name and unit price.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry for one barcode.
type Product struct {
	Barcode    string          `json:"barcode"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID int64           `json:"category_id,omitempty"`
}

// Catalog resolves barcodes to products.
type Catalog interface {
	// Lookup returns the product for the given barcode, or an error wrapping
	// apperrors.ErrNotFound when the barcode is unknown.
	Lookup(ctx context.Context, barcode string) (*Product, error)

	// List returns all products, ordered by name.
	List(ctx context.Context) ([]Product, error)
}
