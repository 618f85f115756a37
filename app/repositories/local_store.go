package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/storage"
)

// Keys of the three documents kept on the local disk.
const (
	ProductsKey     = "products.json"
	TransactionsKey = "transactions.json"
	SettingsKey     = "settings.json"
)

// LocalStore keeps the catalog and ledger as whole JSON documents on a disk.
// Every write reads the current document, changes it and writes it back in
// full; mu serialises those read-modify-write cycles.
type LocalStore struct {
	disk storage.Disk
	mu   sync.Mutex
}

func NewLocalStore(disk storage.Disk) *LocalStore {
	return &LocalStore{disk: disk}
}

// Products returns the stored catalog, or DefaultProducts when nothing has
// been written yet.
func (s *LocalStore) Products() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products()
}

func (s *LocalStore) products() ([]models.Product, error) {
	var out []models.Product
	found, err := readJSON(s.disk, ProductsKey, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultProducts(), nil
	}
	return out, nil
}

// UpsertProduct replaces the product with the same id in place, or appends it.
func (s *LocalStore) UpsertProduct(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.products()
	if err != nil {
		return err
	}

	replaced := false
	for i := range current {
		if current[i].ID == p.ID {
			current[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		current = append(current, p)
	}
	return writeJSON(s.disk, ProductsKey, current)
}

// DeleteProduct removes id from the catalog. Removing an absent id still
// rewrites the document, which materialises the default catalog on first use.
func (s *LocalStore) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.products()
	if err != nil {
		return err
	}

	kept := current[:0]
	for _, p := range current {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return writeJSON(s.disk, ProductsKey, kept)
}

// Transactions returns the ledger newest first.
func (s *LocalStore) Transactions() ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions()
}

func (s *LocalStore) transactions() ([]models.Transaction, error) {
	out := []models.Transaction{}
	if _, err := readJSON(s.disk, TransactionsKey, &out); err != nil {
		return nil, err
	}
	SortNewestFirst(out)
	return out, nil
}

// AppendTransaction stores tx at the head of the ledger.
func (s *LocalStore) AppendTransaction(tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.transactions()
	if err != nil {
		return err
	}
	updated := make([]models.Transaction, 0, len(current)+1)
	updated = append(updated, tx)
	updated = append(updated, current...)
	SortNewestFirst(updated)
	return writeJSON(s.disk, TransactionsKey, updated)
}

// SortNewestFirst orders by timestamp descending. The sort is stable so
// records sharing a millisecond keep their relative order.
func SortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp > txs[j].Timestamp
	})
}

func readJSON(disk storage.Disk, key string, dest interface{}) (bool, error) {
	raw, err := disk.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

func writeJSON(disk storage.Disk, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := disk.Put(key, raw); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}
