// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package bootstrap holds the timing primitives for the agent's startup
// behavior: a fixed, cancellable wait before the first credential rotation
// so Grafana can finish its own database migration.
package bootstrap

import (
	"context"
	"time"
)

// Clock provides an abstraction over time.Now for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var defaultClock Clock = systemClock{}

// SetClock replaces the global clock used by the package. Tests may set a fake clock.
func SetClock(c Clock) { defaultClock = c }

// ResetClock restores the default system clock.
func ResetClock() { defaultClock = systemClock{} }

// Now returns the current time from the active clock.
func Now() time.Time { return defaultClock.Now() }

// Sleep waits for d or until ctx is cancelled, whichever comes first. The
// context error is returned on cancellation so callers can distinguish
// shutdown from a completed wait.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
