package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(barcode string, qty int, price string) LineItem {
	return LineItem{
		Barcode:   barcode,
		Name:      "item " + barcode,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestLineItem_LineTotal(t *testing.T) {
	li := item("5901234123457", 3, "3.50")
	assert.True(t, li.LineTotal().Equal(decimal.RequireFromString("10.50")))
}

func TestCart_Total(t *testing.T) {
	t.Run("empty cart totals zero", func(t *testing.T) {
		assert.True(t, NewCart().Total().IsZero())
	})

	t.Run("sums line totals exactly", func(t *testing.T) {
		c := NewCart()
		c.Items = append(c.Items, item("a", 2, "3.50"), item("b", 3, "4.20"))

		assert.True(t, c.Total().Equal(decimal.RequireFromString("19.60")))
	})

	t.Run("no float drift on awkward prices", func(t *testing.T) {
		c := NewCart()
		c.Items = append(c.Items, item("a", 3, "0.10"))

		// 3 * 0.10 must be exactly 0.30, not 0.30000000000000004.
		assert.True(t, c.Total().Equal(decimal.RequireFromString("0.30")))
	})
}

func TestCart_FindItemIndex(t *testing.T) {
	c := NewCart()
	c.Items = append(c.Items, item("a", 1, "1.00"), item("b", 1, "2.00"))

	assert.Equal(t, 0, c.FindItemIndex("a"))
	assert.Equal(t, 1, c.FindItemIndex("b"))
	assert.Equal(t, -1, c.FindItemIndex("c"))
}

func TestCart_ItemCount(t *testing.T) {
	c := NewCart()
	assert.Zero(t, c.ItemCount())

	c.Items = append(c.Items, item("a", 2, "1.00"), item("b", 3, "2.00"))
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_IsEmpty(t *testing.T) {
	c := NewCart()
	assert.True(t, c.IsEmpty())

	c.Items = append(c.Items, item("a", 1, "1.00"))
	assert.False(t, c.IsEmpty())
}

func TestPaymentRecord_Lifecycle(t *testing.T) {
	p := NewPaymentRecord(decimal.RequireFromString("19.60"), "bank_card")

	require.Equal(t, PaymentStatusPending, p.Status)
	assert.False(t, p.Succeeded)
	assert.False(t, p.IsPersisted())

	p.MarkCompleted()
	assert.Equal(t, PaymentStatusCompleted, p.Status)
	assert.True(t, p.Succeeded)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))
}

func TestPaymentRecord_MarkFailed(t *testing.T) {
	p := NewPaymentRecord(decimal.RequireFromString("5.00"), "bank_card")
	p.MarkFailed()

	assert.Equal(t, PaymentStatusFailed, p.Status)
	assert.False(t, p.Succeeded)
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, s := range ValidPaymentStatuses() {
		assert.True(t, IsValidPaymentStatus(s))
	}
	assert.False(t, IsValidPaymentStatus("SETTLED"))
	assert.False(t, IsValidPaymentStatus(""))
}

func TestGatewayOutcome_Retryable(t *testing.T) {
	assert.False(t, Approved().Retryable())
	assert.False(t, Declined("insufficient funds").Retryable())
	assert.True(t, TransientFailure("timeout").Retryable())
	assert.False(t, ProtocolError(404, "endpoint not found").Retryable())
}
