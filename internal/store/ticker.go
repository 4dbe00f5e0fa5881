package store

import (
	"context"
	"math/rand"
	"time"

	"uza-logistics/internal/core/logger"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Ticker simulates deliveries so the UI can demonstrate live status changes
// without a server push channel. Each tick it rolls against a fixed
// probability and, on a hit, asks the store to auto-deliver at most one
// In Transit shipment.
type Ticker struct {
	store       *Store
	interval    time.Duration
	probability float64
	clock       clockz.Clock
	roll        func() float64
	log         *zap.Logger
}

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithTickerClock sets a custom clock so tests can drive ticks deterministically.
func WithTickerClock(clock clockz.Clock) TickerOption {
	return func(t *Ticker) { t.clock = clock }
}

// WithRoll sets a custom probability roll so tests can force or suppress
// auto-delivery.
func WithRoll(roll func() float64) TickerOption {
	return func(t *Ticker) { t.roll = roll }
}

// NewTicker creates a Ticker over the given store.
func NewTicker(s *Store, interval time.Duration, probability float64, opts ...TickerOption) *Ticker {
	t := &Ticker{
		store:       s,
		interval:    interval,
		probability: probability,
		clock:       clockz.RealClock,
		roll:        rand.Float64,
		log:         logger.Get(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run ticks until ctx is cancelled. Intended to be started as a goroutine
// from main.
func (t *Ticker) Run(ctx context.Context) {
	t.log.Info("Auto-delivery ticker started",
		zap.Duration("interval", t.interval),
		zap.Float64("probability", t.probability),
	)

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Auto-delivery ticker stopped")
			return
		case <-t.clock.After(t.interval):
			t.Tick(ctx)
		}
	}
}

// Tick performs one probability roll and, on a hit, auto-delivers one
// shipment. Either a shipment transitions with its notification and audit
// entry in the same mutation, or nothing changes at all.
func (t *Ticker) Tick(ctx context.Context) {
	if t.roll() >= t.probability {
		return
	}

	if _, _, err := t.store.AutoDeliverOne(ctx); err != nil {
		t.log.Error("Auto-delivery failed", zap.Error(err))
	}
}
