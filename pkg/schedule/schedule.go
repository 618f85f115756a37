// Package schedule runs named cron jobs on robfig/cron. Jobs never overlap
// with themselves and a panicking job is logged, not fatal.
//
//	s := schedule.New()
//	_ = s.Add("ledger.export", "0 3 * * *", exportLedger)
//	s.Start()
//	defer s.Stop(ctx)
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/till/pkg/logger"
)

type Scheduler struct {
	c     *cron.Cron
	names map[cron.EntryID]string
}

// New builds a scheduler using standard 5-field expressions and descriptors
// such as @daily or @every 1h.
func New() *Scheduler {
	log := cronLogger{}
	return &Scheduler{
		c: cron.New(
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		names: map[cron.EntryID]string{},
	}
}

// Add registers fn under name for spec.
func (s *Scheduler) Add(name, spec string, fn func()) error {
	id, err := s.c.AddFunc(spec, func() {
		start := time.Now()
		fn()
		logger.Info("schedule: job finished", "job", name, "duration", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("schedule: job %s: %w", name, err)
	}
	s.names[id] = name
	return nil
}

// Jobs lists registered jobs with their next run time.
func (s *Scheduler) Jobs() map[string]time.Time {
	out := make(map[string]time.Time, len(s.names))
	for _, e := range s.c.Entries() {
		out[s.names[e.ID]] = e.Next
	}
	return out
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("schedule: stop timed out with jobs still running")
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	logger.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	logger.Error("cron: "+msg, append(kv, "error", err)...)
}
