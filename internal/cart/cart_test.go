package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishagb/storefront/internal/domain"
	"github.com/dishagb/storefront/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewStore(context.Background(), fileStore, "test-session", testLogger()), fileStore
}

func stonePlan() domain.LineItem {
	return domain.LineItem{
		Name:  "Stone Plan",
		Price: 259,
		Type:  domain.ItemTypeMinecraft,
		Details: map[string]string{
			"ram":     "2GB",
			"storage": "10GB",
		},
	}
}

func TestAdd_MergesSameNameAndType(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	first := sut.Add(ctx, stonePlan())
	second := sut.Add(ctx, stonePlan())

	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 518.0, sut.Total())
	assert.Equal(t, 2, sut.Count())
}

func TestAdd_DistinctPairsAppendInOrder(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, domain.LineItem{Name: "Stone Plan", Price: 259, Type: domain.ItemTypeMinecraft})
	sut.Add(ctx, domain.LineItem{Name: "VPS Basic", Price: 499, Type: domain.ItemTypeVPS})
	// Same name as the first row but a different type: a separate pair.
	sut.Add(ctx, domain.LineItem{Name: "Stone Plan", Price: 199, Type: domain.ItemTypeBot})

	items := sut.Items()
	require.Len(t, items, 3)
	assert.Equal(t, domain.ItemTypeMinecraft, items[0].Type)
	assert.Equal(t, domain.ItemTypeVPS, items[1].Type)
	assert.Equal(t, domain.ItemTypeBot, items[2].Type)
	for _, item := range items {
		assert.Equal(t, 1, item.Quantity)
	}
}

func TestAdd_AssignsIDAndQuantity(t *testing.T) {
	sut, _ := newTestStore(t)

	row := sut.Add(context.Background(), domain.LineItem{
		ID:       "ignored",
		Name:     "VPS Basic",
		Price:    499,
		Type:     domain.ItemTypeVPS,
		Quantity: 42, // ignored as well
	})

	assert.NotEqual(t, "ignored", row.ID)
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, 1, row.Quantity)
}

func TestUpdateQuantity_AbsoluteSet(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	row := sut.Add(ctx, stonePlan())
	sut.UpdateQuantity(ctx, row.ID, 5)

	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, sut.Count())
	assert.Equal(t, 259.0*5, sut.Total())
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	row := sut.Add(ctx, stonePlan())
	sut.UpdateQuantity(ctx, row.ID, 0)

	assert.Empty(t, sut.Items())
	assert.Equal(t, 0, sut.Count())
	assert.Equal(t, 0.0, sut.Total())
}

func TestUpdateQuantity_NegativeRemovesItem(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	row := sut.Add(ctx, stonePlan())
	sut.UpdateQuantity(ctx, row.ID, -3)

	assert.Empty(t, sut.Items())
}

func TestRemove_AbsentIDIsNoOp(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, stonePlan())
	sut.Remove(ctx, "no-such-id")

	assert.Len(t, sut.Items(), 1)
}

func TestClear(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, stonePlan())
	sut.Add(ctx, domain.LineItem{Name: "VPS Basic", Price: 499, Type: domain.ItemTypeVPS})
	sut.Clear(ctx)

	assert.Empty(t, sut.Items())
	assert.Equal(t, 0, sut.Count())
	assert.Equal(t, 0.0, sut.Total())
}

func TestEmptyCartTotals(t *testing.T) {
	sut, _ := newTestStore(t)

	assert.Equal(t, 0.0, sut.Total())
	assert.Equal(t, 0, sut.Count())
	assert.Empty(t, sut.Items())
}

func TestPersistenceRoundTrip(t *testing.T) {
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := NewStore(ctx, fileStore, "session-1", testLogger())
	first.Add(ctx, stonePlan())
	row := first.Add(ctx, domain.LineItem{Name: "VPS Basic", Price: 499, Type: domain.ItemTypeVPS})
	first.UpdateQuantity(ctx, row.ID, 3)

	// A fresh store over the same storage rehydrates identical state.
	second := NewStore(ctx, fileStore, "session-1", testLogger())
	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, first.Total(), second.Total())
	assert.Equal(t, first.Count(), second.Count())
}

func TestMergeSurvivesReload(t *testing.T) {
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	NewStore(ctx, fileStore, "session-1", testLogger()).Add(ctx, stonePlan())

	reloaded := NewStore(ctx, fileStore, "session-1", testLogger())
	reloaded.Add(ctx, stonePlan())

	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCorruptPersistedCartLoadsEmpty(t *testing.T) {
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fileStore.Set(ctx, StorageKey("session-1"), "{not json"))

	sut := NewStore(ctx, fileStore, "session-1", testLogger())
	assert.Empty(t, sut.Items())
	assert.Equal(t, 0, sut.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	NewStore(ctx, fileStore, "session-a", testLogger()).Add(ctx, stonePlan())

	other := NewStore(ctx, fileStore, "session-b", testLogger())
	assert.Empty(t, other.Items())
}

func TestItemsReturnsDeepCopy(t *testing.T) {
	sut, _ := newTestStore(t)
	ctx := context.Background()

	sut.Add(ctx, stonePlan())

	items := sut.Items()
	items[0].Quantity = 99
	items[0].Details["ram"] = "tampered"

	fresh := sut.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "2GB", fresh[0].Details["ram"])
}
