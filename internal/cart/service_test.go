package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Lookup(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalog) List(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cola() *catalog.Product {
	return &catalog.Product{
		Barcode:   "5901234123457",
		Name:      "Cola 0.5L",
		UnitPrice: decimal.RequireFromString("3.50"),
	}
}

func bread() *catalog.Product {
	return &catalog.Product{
		Barcode:   "5900000000017",
		Name:      "Bread",
		UnitPrice: decimal.RequireFromString("4.20"),
	}
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new line", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		svc := NewService("1", cat, nil, testLogger())

		item, err := svc.AddItem(ctx, cola().Barcode, 2)

		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "Cola 0.5L", item.Name)
		assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("7.00")))
		cat.AssertExpectations(t)
	})

	t.Run("accumulates quantity on repeated barcode", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 2)
		require.NoError(t, err)
		item, err := svc.AddItem(ctx, cola().Barcode, 3)
		require.NoError(t, err)

		assert.Equal(t, 5, item.Quantity)
		assert.Len(t, svc.Items(), 1)
	})

	t.Run("rejects unknown barcode without touching the cart", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, "0000000000000").Return(nil, apperrors.NotFound("product", "0000000000000"))
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, "0000000000000", 1)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.True(t, svc.IsEmpty())
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		cat := new(mockCatalog)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		cat.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing line", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		cat.On("Lookup", ctx, bread().Barcode).Return(bread(), nil)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, bread().Barcode, 1)
		require.NoError(t, err)

		svc.RemoveItem(ctx, cola().Barcode)

		items := svc.Items()
		require.Len(t, items, 1)
		assert.Equal(t, bread().Barcode, items[0].Barcode)
	})

	t.Run("is a no-op for an absent barcode", func(t *testing.T) {
		cat := new(mockCatalog)
		svc := NewService("1", cat, nil, testLogger())

		svc.RemoveItem(ctx, "5901234123457")

		assert.True(t, svc.IsEmpty())
	})

	t.Run("add then remove leaves total at zero", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 3)
		require.NoError(t, err)
		svc.RemoveItem(ctx, cola().Barcode)

		assert.True(t, svc.Total().IsZero())
		assert.True(t, svc.IsEmpty())
	})
}

func TestService_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the quantity of an existing line", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 2)
		require.NoError(t, err)

		err = svc.SetQuantity(ctx, cola().Barcode, 7)

		require.NoError(t, err)
		assert.Equal(t, 7, svc.Items()[0].Quantity)
	})

	t.Run("fails for a barcode not in the cart", func(t *testing.T) {
		cat := new(mockCatalog)
		svc := NewService("1", cat, nil, testLogger())

		err := svc.SetQuantity(ctx, cola().Barcode, 2)

		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "ITEM_NOT_IN_CART", appErr.Code)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		cat := new(mockCatalog)
		cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
		svc := NewService("1", cat, nil, testLogger())

		_, err := svc.AddItem(ctx, cola().Barcode, 2)
		require.NoError(t, err)

		err = svc.SetQuantity(ctx, cola().Barcode, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		assert.Equal(t, 2, svc.Items()[0].Quantity)
	})
}

func TestService_Total(t *testing.T) {
	ctx := context.Background()

	cat := new(mockCatalog)
	cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
	cat.On("Lookup", ctx, bread().Barcode).Return(bread(), nil)
	svc := NewService("1", cat, nil, testLogger())

	assert.True(t, svc.Total().IsZero())

	_, err := svc.AddItem(ctx, cola().Barcode, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, bread().Barcode, 3)
	require.NoError(t, err)

	// 2*3.50 + 3*4.20 = 19.60, exact in decimal arithmetic.
	assert.True(t, svc.Total().Equal(decimal.RequireFromString("19.60")))
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()

	cat := new(mockCatalog)
	cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
	svc := NewService("1", cat, nil, testLogger())

	_, err := svc.AddItem(ctx, cola().Barcode, 2)
	require.NoError(t, err)

	svc.Clear(ctx)

	assert.True(t, svc.IsEmpty())
	assert.Empty(t, svc.Items())
}

func TestService_ItemsPreserveInsertionOrder(t *testing.T) {
	ctx := context.Background()

	cat := new(mockCatalog)
	cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
	cat.On("Lookup", ctx, bread().Barcode).Return(bread(), nil)
	svc := NewService("1", cat, nil, testLogger())

	_, err := svc.AddItem(ctx, cola().Barcode, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, bread().Barcode, 1)
	require.NoError(t, err)
	// Re-adding the first barcode must not move it to the back.
	_, err = svc.AddItem(ctx, cola().Barcode, 1)
	require.NoError(t, err)

	items := svc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, cola().Barcode, items[0].Barcode)
	assert.Equal(t, bread().Barcode, items[1].Barcode)
}

func TestService_ConcurrentAddsAccumulate(t *testing.T) {
	ctx := context.Background()

	cat := new(mockCatalog)
	cat.On("Lookup", ctx, cola().Barcode).Return(cola(), nil)
	svc := NewService("1", cat, nil, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, cola().Barcode, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items := svc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 20, items[0].Quantity)
	assert.True(t, svc.Total().Equal(decimal.RequireFromString("70.00")))
}
