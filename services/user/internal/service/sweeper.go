package service

import (
	"context"
	"log/slog"
	"time"
)

type Expirer interface {
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpirySweeper flags ledger records whose lifetime has run out. It never revokes.
type ExpirySweeper struct {
	Ledger   Expirer
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int64, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	n, err := s.Ledger.ExpireBefore(ctx, now())
	if err != nil {
		s.Logger.Error("ledger_sweep_failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.Logger.Info("ledger_sweep", "expired", n)
	}
	return n, nil
}

// Run blocks until ctx is done.
func (s *ExpirySweeper) Run(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}
