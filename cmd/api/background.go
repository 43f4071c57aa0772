package main

import (
	"context"
	"time"
)

const staleTokenAge = 70 * 24 * time.Hour

// reconcileEvery finishes approvals that stopped between saga steps. It runs
// once immediately and then on every tick until ctx is done.
func (app *application) reconcileEvery(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			app.reconcileOnce(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (app *application) reconcileOnce(ctx context.Context) {
	report, err := app.moderation.Reconcile(ctx)
	if err != nil {
		app.logger.Errorf("Error reconciling approvals: %v", err)
		return
	}
	if report.Materialized+report.Applied+report.Failed > 0 {
		app.logger.Infow("reconciled approvals",
			"materialized", report.Materialized,
			"applied", report.Applied,
			"failed", report.Failed,
		)
	}
}

// housekeepingEvery prunes push tokens not refreshed for staleTokenAge and
// drops expired rate limiter windows.
func (app *application) housekeepingEvery(ctx context.Context, interval time.Duration, sweep func() int) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			n, err := app.store.PushTokens.PruneStale(ctx, staleTokenAge)
			if err != nil {
				app.logger.Errorf("Error pruning stale push tokens: %v", err)
			} else if n > 0 {
				app.logger.Infof("Pruned %d stale push tokens at %s", n, time.Now().Format(time.RFC1123))
			}

			if sweep != nil {
				sweep()
			}
		}
	}()
}
