package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/storage"
)

func newLocal(t *testing.T) (*LocalStore, *storage.LocalDisk) {
	t.Helper()
	disk := storage.NewLocal(t.TempDir(), "")
	return NewLocalStore(disk), disk
}

func TestLocalStore_ProductsDefaultWhenEmpty(t *testing.T) {
	s, _ := newLocal(t)

	got, err := s.Products()
	require.NoError(t, err)
	assert.Equal(t, DefaultProducts(), got)
}

func TestLocalStore_UpsertReplacesInPlace(t *testing.T) {
	s, _ := newLocal(t)

	require.NoError(t, s.UpsertProduct(models.Product{ID: "9", Name: "Mocha", Price: 24, Cost: 7}))
	require.NoError(t, s.UpsertProduct(models.Product{ID: "1", Name: "Oat Latte", Price: 26, Cost: 8}))

	got, err := s.Products()
	require.NoError(t, err)
	require.Len(t, got, len(DefaultProducts())+1)
	assert.Equal(t, "Oat Latte", got[0].Name)
	assert.Equal(t, "9", got[len(got)-1].ID)
}

func TestLocalStore_DeleteProduct(t *testing.T) {
	s, _ := newLocal(t)

	require.NoError(t, s.DeleteProduct("1"))
	require.NoError(t, s.DeleteProduct("missing"))

	got, err := s.Products()
	require.NoError(t, err)
	assert.Len(t, got, len(DefaultProducts())-1)
	for _, p := range got {
		assert.NotEqual(t, "1", p.ID)
	}
}

func TestLocalStore_DeleteAllLeavesEmptyCatalog(t *testing.T) {
	s, _ := newLocal(t)
	for _, p := range DefaultProducts() {
		require.NoError(t, s.DeleteProduct(p.ID))
	}

	got, err := s.Products()
	require.NoError(t, err)
	assert.Empty(t, got, "an emptied catalog must not fall back to defaults")
}

func TestLocalStore_TransactionsNewestFirst(t *testing.T) {
	s, _ := newLocal(t)

	empty, err := s.Transactions()
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.AppendTransaction(models.Transaction{ID: "a", Timestamp: 100}))
	require.NoError(t, s.AppendTransaction(models.Transaction{ID: "c", Timestamp: 300}))
	require.NoError(t, s.AppendTransaction(models.Transaction{ID: "b", Timestamp: 200}))

	got, err := s.Transactions()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestLocalStore_CorruptDocument(t *testing.T) {
	s, disk := newLocal(t)
	require.NoError(t, disk.Put(TransactionsKey, []byte("{not json")))

	_, err := s.Transactions()
	assert.Error(t, err)
	assert.Error(t, s.AppendTransaction(models.Transaction{ID: "x"}))
}

func TestSortNewestFirst_Stable(t *testing.T) {
	txs := []models.Transaction{
		{ID: "first", Timestamp: 5},
		{ID: "second", Timestamp: 5},
		{ID: "newer", Timestamp: 9},
	}
	SortNewestFirst(txs)
	assert.Equal(t, "newer", txs[0].ID)
	assert.Equal(t, "first", txs[1].ID)
	assert.Equal(t, "second", txs[2].ID)
}
