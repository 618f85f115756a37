package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/pkg/storage"
)

var errRemoteDown = errors.New("remote: connection refused")

// fakeRemote records calls and fails on demand.
type fakeRemote struct {
	mu       sync.Mutex
	products []models.Product
	txs      []models.Transaction
	fail     bool
	calls    []string
	closed   bool
}

func (f *fakeRemote) record(op string) error {
	f.calls = append(f.calls, op)
	if f.fail {
		return errRemoteDown
	}
	return nil
}

func (f *fakeRemote) ListProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("products.list"); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeRemote) UpsertProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("products.upsert"); err != nil {
		return err
	}
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return nil
		}
	}
	f.products = append(f.products, p)
	return nil
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("products.delete"); err != nil {
		return err
	}
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

func (f *fakeRemote) ListTransactions(context.Context) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("transactions.list"); err != nil {
		return nil, err
	}
	out := append([]models.Transaction(nil), f.txs...)
	repositories.SortNewestFirst(out)
	return out, nil
}

func (f *fakeRemote) InsertTransaction(_ context.Context, tx models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("transactions.insert"); err != nil {
		return err
	}
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func connectTo(r RemoteBackend, err error) Connector {
	return func(context.Context, string, string) (RemoteBackend, error) {
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

func newLocalStore(t *testing.T) (*repositories.LocalStore, *storage.LocalDisk) {
	t.Helper()
	disk := storage.NewLocal(t.TempDir(), "")
	return repositories.NewLocalStore(disk), disk
}

var cloudOn = models.Settings{UseCloud: true, RemoteEndpoint: "sqlite:///remote.db", RemoteCredential: "secret"}

var latte = models.Product{ID: "1", Name: "Latte", Price: 22, Cost: 6, Category: "Drinks"}
