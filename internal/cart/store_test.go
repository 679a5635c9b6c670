package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	data    map[string][]byte
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStorage) Save(_ context.Context, key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = data
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func catalogLine(id string, price float64, ceiling int) Line {
	return Line{
		ID:           id,
		Kind:         KindCatalog,
		Title:        "Perfume " + id,
		UnitPrice:    decimal.NewFromFloat(price),
		StockCeiling: ceiling,
	}
}

func TestAddMergesAndClampsAtCeiling(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s := Open(ctx, storage, "c1")

	line := catalogLine("p1", 450, 2)
	require.NoError(t, s.Add(ctx, line))
	require.NoError(t, s.Add(ctx, line))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// third add is at the ceiling: silently kept at 2
	require.NoError(t, s.Add(ctx, line))
	assert.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestSetQuantityClampsToCeiling(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemStorage(), "c1")
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450, 3)))

	require.NoError(t, s.SetQuantity(ctx, "p1", 10))
	assert.Equal(t, 3, s.Lines()[0].Quantity)

	require.NoError(t, s.SetQuantity(ctx, "p1", 2))
	assert.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestIncrementDecrementBounds(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemStorage(), "c1")
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450, 2)))

	require.NoError(t, s.Increment(ctx, "p1"))
	assert.Equal(t, 2, s.Lines()[0].Quantity)

	// ceiling reached: increment is a no-op
	require.NoError(t, s.Increment(ctx, "p1"))
	assert.Equal(t, 2, s.Lines()[0].Quantity)

	require.NoError(t, s.Decrement(ctx, "p1"))
	require.NoError(t, s.Decrement(ctx, "p1"))
	// floor is 1, not 0; Remove deletes a line
	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestRemoveAndAbsentIDs(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemStorage(), "c1")
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450, 5)))

	require.NoError(t, s.Remove(ctx, "ghost"))
	require.Len(t, s.Lines(), 1)

	require.NoError(t, s.Remove(ctx, "p1"))
	assert.True(t, s.IsEmpty())

	// mutations on absent ids are no-ops
	require.NoError(t, s.Increment(ctx, "p1"))
	require.NoError(t, s.SetQuantity(ctx, "p1", 3))
	assert.True(t, s.IsEmpty())
}

func TestCompositeLineKeepsQuantityOne(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemStorage(), "c1")

	set := Line{
		ID:        "set-1",
		Kind:      KindComposite,
		Title:     "Discovery Set",
		UnitPrice: decimal.NewFromInt(180),
		Quantity:  1,
		Components: []Component{
			{SampleID: "s1", Title: "Oud", Price: decimal.NewFromInt(60)},
			{SampleID: "s2", Title: "Rose", Price: decimal.NewFromInt(60)},
			{SampleID: "s3", Title: "Musk", Price: decimal.NewFromInt(60)},
		},
	}
	require.NoError(t, s.Add(ctx, set))

	require.NoError(t, s.Increment(ctx, "set-1"))
	require.NoError(t, s.SetQuantity(ctx, "set-1", 4))
	require.NoError(t, s.Add(ctx, set))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(180).Equal(lines[0].Subtotal()))
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	s := Open(ctx, storage, "c1")
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450.50, 5)))
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450.50, 5)))
	require.NoError(t, s.Add(ctx, catalogLine("p2", 300, 2)))

	reopened := Open(ctx, storage, "c1")
	lines := reopened.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.NewFromFloat(450.50).Equal(lines[0].UnitPrice))
	assert.Equal(t, 5, lines[0].StockCeiling)
}

func TestOpenCorruptPayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.data["c1"] = []byte("{not json")

	s := Open(ctx, storage, "c1")
	assert.True(t, s.IsEmpty())
}

func TestClearDropsPersistedValue(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s := Open(ctx, storage, "c1")
	require.NoError(t, s.Add(ctx, catalogLine("p1", 450, 5)))
	require.Contains(t, storage.data, "c1")

	require.NoError(t, s.Clear(ctx))
	assert.True(t, s.IsEmpty())
	assert.NotContains(t, storage.data, "c1")
}

func TestPersistFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.saveErr = errors.New("redis down")

	s := Open(ctx, storage, "c1")
	err := s.Add(ctx, catalogLine("p1", 450, 5))
	require.Error(t, err)
	// the in-memory view still advanced; only persistence failed
	assert.Len(t, s.Lines(), 1)
}
