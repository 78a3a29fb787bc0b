package services

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// JitterFunc picks the delay before the next matching pass. Injectable so
// tests can pin the interval.
type JitterFunc func(min, max time.Duration) time.Duration

// UniformJitter returns a duration drawn uniformly from [min, max].
func UniformJitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// MatchScheduler drives the background matching loop: one pass immediately on
// start, then one pass every few hours at a randomized interval so match
// creation never settles into a predictable rhythm.
type MatchScheduler struct {
	Matcher *MatcherService
	Min     time.Duration
	Max     time.Duration
	Jitter  JitterFunc
	Logger  *zap.Logger
}

func NewMatchScheduler(matcher *MatcherService, min, max time.Duration, logger *zap.Logger) *MatchScheduler {
	return &MatchScheduler{
		Matcher: matcher,
		Min:     min,
		Max:     max,
		Jitter:  UniformJitter,
		Logger:  logger,
	}
}

// Run blocks until ctx is cancelled. A failed or panicking pass is logged and
// the loop keeps going; one bad pass must not stop future matching.
func (s *MatchScheduler) Run(ctx context.Context) {
	s.Logger.Info("match scheduler started",
		zap.Duration("min_interval", s.Min),
		zap.Duration("max_interval", s.Max))

	s.runPass(ctx)

	timer := time.NewTimer(s.Jitter(s.Min, s.Max))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("match scheduler stopped")
			return
		case <-timer.C:
			s.runPass(ctx)
			next := s.Jitter(s.Min, s.Max)
			s.Logger.Debug("next matching pass scheduled", zap.Duration("in", next))
			timer.Reset(next)
		}
	}
}

func (s *MatchScheduler) runPass(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("matching pass panicked", zap.Any("panic", r))
		}
	}()

	started := time.Now()
	created, err := s.Matcher.RunMatchingPass(ctx)
	if err != nil {
		s.Logger.Error("matching pass failed", zap.Error(err))
		return
	}
	s.Logger.Info("matching pass complete",
		zap.Int("matches_created", len(created)),
		zap.Duration("elapsed", time.Since(started)))
}
