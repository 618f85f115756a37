package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/pkg/storage"
)

const entityTransactions = "transactions"

// ExportFilename is the attachment name used for downloads.
const ExportFilename = "sales_history.json"

// LedgerStore is the append-only transaction ledger as seen through the sync
// policy. There is no update or delete.
type LedgerStore struct {
	policy *SyncPolicy
}

func NewLedgerStore(policy *SyncPolicy) *LedgerStore {
	return &LedgerStore{policy: policy}
}

// List returns every transaction newest first, whichever backend answered.
func (l *LedgerStore) List(ctx context.Context) []models.Transaction {
	out := read(ctx, l.policy, entityTransactions,
		func(ctx context.Context, r RemoteBackend) ([]models.Transaction, error) {
			return r.ListTransactions(ctx)
		},
		l.policy.Local().Transactions,
		func() []models.Transaction { return []models.Transaction{} },
	)
	repositories.SortNewestFirst(out)
	return out
}

// Append records tx. Only a local write failure is reported.
func (l *LedgerStore) Append(ctx context.Context, tx models.Transaction) error {
	return l.policy.write(ctx, entityTransactions, "append",
		func(ctx context.Context, r RemoteBackend) error { return r.InsertTransaction(ctx, tx) },
		func() error { return l.policy.Local().AppendTransaction(tx) },
	)
}

// Export writes the full ledger to w as indented JSON.
func (l *LedgerStore) Export(ctx context.Context, w io.Writer) error {
	return WriteExport(w, l.List(ctx))
}

// WriteExport encodes txs in the export format.
func WriteExport(w io.Writer, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txs); err != nil {
		return fmt.Errorf("ledger: export: %w", err)
	}
	return nil
}

// ExportTo stores a timestamped export on disk and returns its path.
func (l *LedgerStore) ExportTo(ctx context.Context, disk storage.Disk, now time.Time) (string, error) {
	raw, err := json.MarshalIndent(l.List(ctx), "", "  ")
	if err != nil {
		return "", fmt.Errorf("ledger: export: %w", err)
	}
	path := fmt.Sprintf("exports/sales_history-%s.json", now.Format("20060102-150405"))
	if err := disk.Put(path, raw); err != nil {
		return "", fmt.Errorf("ledger: export: %w", err)
	}
	return path, nil
}
