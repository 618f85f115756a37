package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/till/app/repositories"
	"github.com/shashiranjanraj/till/app/services"
	"github.com/shashiranjanraj/till/config"
	"github.com/shashiranjanraj/till/pkg/cache"
	"github.com/shashiranjanraj/till/pkg/crypt"
	"github.com/shashiranjanraj/till/pkg/event"
	"github.com/shashiranjanraj/till/pkg/genai"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/storage"
)

// Runtime is a started terminal plus the infrastructure it was built on.
type Runtime struct {
	Terminal *services.Terminal
	Bus      *event.Bus

	cache *cache.Store
	mongo *logger.MongoHandler
}

// Boot loads config, connects the optional infrastructure and starts the
// terminal. Redis and MongoDB are best effort: when unreachable the process
// runs without them.
func Boot(ctx context.Context) (*Runtime, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rt := &Runtime{Bus: event.NewBus()}

	if uri := config.LogMongoURI(); uri != "" {
		h, err := logger.NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection(), slog.LevelWarn)
		if err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		} else {
			rt.mongo = h
			logger.Attach(h)
		}
	}

	storage.Connect()
	disk, err := storage.Use("local")
	if err != nil {
		return nil, err
	}

	store, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "till:")
	if err != nil {
		logger.Warn("cache: redis unavailable, insight caching disabled", "error", err)
	}
	rt.cache = store

	ttl, err := time.ParseDuration(config.InsightCacheTTL())
	if err != nil {
		return nil, fmt.Errorf("config: INSIGHT_CACHE: %w", err)
	}

	gen := genai.New(genai.Options{
		APIKey:  config.GeminiAPIKey(),
		Model:   config.GeminiModel(),
		BaseURL: config.GeminiBaseURL(),
	})

	local := repositories.NewLocalStore(disk)
	rt.Terminal = services.NewTerminal(services.TerminalOptions{
		Settings: repositories.NewSettingsRepository(disk, crypt.New(config.AppKey())),
		Policy:   services.NewSyncPolicy(local, nil),
		Insight:  services.NewInsightService(gen, store, ttl),
		Bus:      rt.Bus,
	})
	rt.Terminal.Start(ctx)

	logger.Info("terminal ready",
		"cloud_active", rt.Terminal.CloudActive(),
		"products", len(rt.Terminal.Products()),
		"transactions", len(rt.Terminal.Transactions()),
	)
	return rt, nil
}

// Close flushes pending writes, then releases the remote, Redis and the
// log sink, in that order.
func (rt *Runtime) Close() error {
	err := rt.Terminal.Close()
	if cerr := rt.cache.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if rt.mongo != nil {
		rt.mongo.Close()
	}
	return err
}
