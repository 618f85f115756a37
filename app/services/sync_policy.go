package services

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/metrics"
)

// RemoteBackend is the cloud side of the sync policy.
type RemoteBackend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpsertProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	InsertTransaction(ctx context.Context, tx models.Transaction) error
	Close() error
}

// Connector builds and verifies a RemoteBackend from settings credentials.
type Connector func(ctx context.Context, endpoint, credential string) (RemoteBackend, error)

// DialRemote is the production Connector backed by gorm.
func DialRemote(ctx context.Context, endpoint, credential string) (RemoteBackend, error) {
	store, err := repositories.OpenRemoteStore(ctx, endpoint, credential)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// SyncPolicy routes catalog and ledger access between the optional remote
// backend and the local store.
//
// Reads go to the remote when cloud mode is active and fall back to local data
// on any remote error. Writes go to the remote first when active, and then to
// the local store unconditionally, so local is always a mirror of every
// intended change. Remote failures are logged and counted, never retried.
// Nothing reconciles the two sides if they diverge.
type SyncPolicy struct {
	local   *repositories.LocalStore
	connect Connector

	mu       sync.RWMutex
	settings models.Settings
	remote   RemoteBackend
	initErr  error
}

func NewSyncPolicy(local *repositories.LocalStore, connect Connector) *SyncPolicy {
	if connect == nil {
		connect = DialRemote
	}
	return &SyncPolicy{local: local, connect: connect}
}

// Configure rebuilds the remote handle for s and reports whether cloud mode
// is now active. Any previous handle is closed first. A failed initialisation
// leaves the policy local-only until the next Configure.
func (p *SyncPolicy) Configure(ctx context.Context, s models.Settings) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.remote != nil {
		if err := p.remote.Close(); err != nil {
			logger.WithCtx(ctx).Warn("sync: closing previous remote failed", "error", err)
		}
		p.remote = nil
	}
	p.settings = s
	p.initErr = nil

	if !s.UseCloud {
		metrics.SetCloudActive(false)
		return false
	}

	remote, err := p.connect(ctx, s.RemoteEndpoint, s.RemoteCredential)
	if err != nil {
		p.initErr = err
		metrics.SetCloudActive(false)
		logger.WithCtx(ctx).Warn("sync: remote initialisation failed, local-only", "error", err)
		return false
	}

	p.remote = remote
	metrics.SetCloudActive(true)
	logger.WithCtx(ctx).Info("sync: cloud mode active")
	return true
}

// Active reports whether remote reads and writes are attempted.
func (p *SyncPolicy) Active() bool {
	return p.handle() != nil
}

// InitError is the reason the last Configure with cloud requested failed.
func (p *SyncPolicy) InitError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initErr
}

// Local exposes the local store, e.g. for exports that must not hit the network.
func (p *SyncPolicy) Local() *repositories.LocalStore { return p.local }

// Close releases the remote handle.
func (p *SyncPolicy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.remote == nil {
		return nil
	}
	err := p.remote.Close()
	p.remote = nil
	metrics.SetCloudActive(false)
	return err
}

// handle returns the current remote, or nil in local-only mode. Callers pass
// the returned value explicitly into each remote call.
func (p *SyncPolicy) handle() RemoteBackend {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.settings.UseCloud {
		return nil
	}
	return p.remote
}

// read serves one read through the policy. local is consulted only when the
// remote is inactive or failed; if local also fails, fallback is returned.
func read[T any](
	ctx context.Context,
	p *SyncPolicy,
	entity string,
	remote func(context.Context, RemoteBackend) (T, error),
	local func() (T, error),
	fallback func() T,
) T {
	log := logger.WithCtx(ctx)

	if h := p.handle(); h != nil {
		start := time.Now()
		out, err := remote(ctx, h)
		metrics.ObserveRemote(entity, "list", start, &err)
		if err == nil {
			return out
		}
		metrics.SyncFallbacks.WithLabelValues(entity, "list").Inc()
		log.Warn("sync: remote read failed, serving local", "entity", entity, "error", err)
	}

	out, err := local()
	if err != nil {
		log.Error("sync: local read failed", "entity", entity, "error", err)
		return fallback()
	}
	return out
}

// write performs the remote write (when active) and then the local write.
// Only the local outcome is returned.
func (p *SyncPolicy) write(
	ctx context.Context,
	entity, op string,
	remote func(context.Context, RemoteBackend) error,
	local func() error,
) error {
	if h := p.handle(); h != nil {
		start := time.Now()
		err := remote(ctx, h)
		metrics.ObserveRemote(entity, op, start, &err)
		if err != nil {
			metrics.SyncFallbacks.WithLabelValues(entity, op).Inc()
			logger.WithCtx(ctx).Warn("sync: remote write failed, mirrored locally only",
				"entity", entity, "op", op, "error", err)
		}
	}
	return local()
}
