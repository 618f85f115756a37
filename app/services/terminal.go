package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/pkg/event"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/workerpool"
)

// ErrCloudUnavailable reports that cloud sync was requested but the remote
// could not be initialised. The settings are still saved.
var ErrCloudUnavailable = errors.New("settings: cloud sync could not be initialised, using local storage")

// Terminal is the state behind one point-of-sale screen: settings, catalog
// and ledger snapshots, and the cart.
//
// Mutations update the snapshots at once and are persisted in the background
// on a single worker, so stores see them in the order they were made. A
// persistence failure is logged and never rolls the snapshot back.
type Terminal struct {
	settingsRepo *repositories.SettingsRepository
	policy       *SyncPolicy
	catalog      *CatalogStore
	ledger       *LedgerStore
	insight      *InsightService
	bus          *event.Bus
	persist      *workerpool.Pool
	cart         *Cart
	now          func() time.Time

	mu           sync.RWMutex
	settings     models.Settings
	products     []models.Product
	transactions []models.Transaction
}

type TerminalOptions struct {
	Settings *repositories.SettingsRepository
	Policy   *SyncPolicy
	Insight  *InsightService
	Bus      *event.Bus
	Now      func() time.Time
}

func NewTerminal(opts TerminalOptions) *Terminal {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if opts.Insight == nil {
		opts.Insight = NewInsightService(nil, nil, 0)
	}

	t := &Terminal{
		settingsRepo: opts.Settings,
		policy:       opts.Policy,
		catalog:      NewCatalogStore(opts.Policy),
		ledger:       NewLedgerStore(opts.Policy),
		insight:      opts.Insight,
		bus:          opts.Bus,
		persist:      workerpool.New("persist", 1, 256),
		now:          opts.Now,
	}
	t.cart = NewCart(terminalAppender{t}, opts.Now)
	return t
}

// Start loads settings, configures the sync policy and fills the snapshots.
func (t *Terminal) Start(ctx context.Context) {
	s := t.settingsRepo.Load()
	t.policy.Configure(ctx, s)

	t.mu.Lock()
	t.settings = s
	t.mu.Unlock()

	t.Reload(ctx)
}

// Reload replaces both snapshots with what the stores return now.
func (t *Terminal) Reload(ctx context.Context) {
	products := t.catalog.List(ctx)
	txs := t.ledger.List(ctx)

	t.mu.Lock()
	t.products = products
	t.transactions = txs
	t.mu.Unlock()
}

// Close waits for pending writes and releases the remote handle.
func (t *Terminal) Close() error {
	t.persist.Shutdown()
	return t.policy.Close()
}

// Flush blocks until every queued write has been attempted.
func (t *Terminal) Flush() { t.persist.Drain() }

func (t *Terminal) Bus() *event.Bus      { return t.bus }
func (t *Terminal) Cart() *Cart          { return t.cart }
func (t *Terminal) Ledger() *LedgerStore { return t.ledger }
func (t *Terminal) CloudActive() bool    { return t.policy.Active() }

func (t *Terminal) Settings() models.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

func (t *Terminal) Products() []models.Product {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Product, len(t.products))
	copy(out, t.products)
	return out
}

// Transactions returns the ledger snapshot, newest first.
func (t *Terminal) Transactions() []models.Transaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Transaction, len(t.transactions))
	copy(out, t.transactions)
	return out
}

func (t *Terminal) Product(id string) (models.Product, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddToCart adds one unit of the catalog product id.
func (t *Terminal) AddToCart(id string) (models.Product, error) {
	p, ok := t.Product(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	t.cart.AddProduct(p)
	return p, nil
}

// SaveProduct creates p (when it has no id) or replaces the product with its
// id, in the snapshot and then in the catalog store.
func (t *Terminal) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return models.Product{}, fmt.Errorf("catalog: new id: %w", err)
		}
		p.ID = id.String()
	}

	t.mu.Lock()
	replaced := false
	for i := range t.products {
		if t.products[i].ID == p.ID {
			t.products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		t.products = append(t.products, p)
	}
	t.mu.Unlock()

	t.background(ctx, "product.upsert", func(ctx context.Context) error {
		return t.catalog.Upsert(ctx, p)
	})
	t.bus.Fire(event.CatalogUpdated, map[string]string{"action": "upsert", "id": p.ID})
	return p, nil
}

// DeleteProduct removes id. Unknown ids are accepted.
func (t *Terminal) DeleteProduct(ctx context.Context, id string) {
	t.mu.Lock()
	kept := t.products[:0:0]
	for _, p := range t.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	t.products = kept
	t.mu.Unlock()

	t.background(ctx, "product.remove", func(ctx context.Context) error {
		return t.catalog.Remove(ctx, id)
	})
	t.bus.Fire(event.CatalogUpdated, map[string]string{"action": "remove", "id": id})
}

// Checkout runs the cart checkout; the transaction lands at the head of the
// snapshot immediately.
func (t *Terminal) Checkout(ctx context.Context, method models.PaymentMethod) (models.Transaction, bool, error) {
	return t.cart.Checkout(ctx, method)
}

// terminalAppender is the cart's view of the ledger through the terminal.
type terminalAppender struct{ t *Terminal }

func (a terminalAppender) Append(ctx context.Context, tx models.Transaction) error {
	t := a.t

	t.mu.Lock()
	t.transactions = append([]models.Transaction{tx}, t.transactions...)
	t.mu.Unlock()

	t.bus.Fire(event.TransactionCreated, tx)
	return t.background(ctx, "transaction.append", func(ctx context.Context) error {
		return t.ledger.Append(ctx, tx)
	})
}

// SaveSettings persists s, reconfigures the sync policy and reloads the
// snapshots from whichever backend is now active. A credential equal to
// models.RedactedCredential keeps the stored one. ErrCloudUnavailable is
// returned, alongside the saved settings, when cloud was requested but could
// not be initialised.
func (t *Terminal) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	if s.RemoteCredential == models.RedactedCredential {
		s.RemoteCredential = t.Settings().RemoteCredential
	}

	// Writes queued under the old settings go to the old backend.
	t.persist.Drain()

	if err := t.settingsRepo.Save(s); err != nil {
		return t.Settings(), err
	}

	t.mu.Lock()
	t.settings = s
	t.mu.Unlock()

	active := t.policy.Configure(ctx, s)
	t.Reload(ctx)
	t.bus.Fire(event.SettingsSaved, map[string]bool{"useCloud": s.UseCloud, "cloudActive": active})

	if s.UseCloud && !active {
		return s, fmt.Errorf("%w: %v", ErrCloudUnavailable, t.policy.InitError())
	}
	return s, nil
}

// Stats summarises the ledger snapshot.
func (t *Terminal) Stats() (SalesSummary, []DayPoint) {
	txs := t.Transactions()
	return Summarize(txs), LastSevenDays(txs, t.now())
}

// Insight generates today's business summary; it never fails.
func (t *Terminal) Insight(ctx context.Context) string {
	return t.insight.Generate(ctx, Aggregate(t.Transactions(), t.Products(), t.now()))
}

// Export writes the ledger snapshot as the downloadable JSON history.
func (t *Terminal) Export(w io.Writer) error {
	return WriteExport(w, t.Transactions())
}

// background queues fn on the persistence worker. The request context may be
// gone by the time fn runs, so fn gets a context that keeps only its values.
func (t *Terminal) background(ctx context.Context, op string, fn func(context.Context) error) error {
	bg := context.WithoutCancel(ctx)
	err := t.persist.SubmitWait(func() {
		if err := fn(bg); err != nil {
			logger.WithCtx(bg).Error("terminal: persist failed", "op", op, "error", err)
		}
	})
	if err != nil {
		logger.WithCtx(ctx).Error("terminal: persist not queued", "op", op, "error", err)
	}
	return err
}
