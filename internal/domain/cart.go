package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem represents a single product line in the cart. Quantity is always
// at least 1; a line that would drop to zero is removed from the cart instead.
type LineItem struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns unit price multiplied by quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds the line items of one register session in insertion order.
// Barcodes are unique within a cart. A Cart is owned by exactly one session
// and is not safe for concurrent mutation.
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// FindItemIndex returns the index of the line item with the given barcode,
// or -1 if the product is not in the cart.
func (c *Cart) FindItemIndex(barcode string) int {
	for i := range c.Items {
		if c.Items[i].Barcode == barcode {
			return i
		}
	}
	return -1
}

// Total returns the exact decimal sum of all line totals. An empty cart
// totals exactly zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
