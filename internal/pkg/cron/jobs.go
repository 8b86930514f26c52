package cron

import (
	"context"
	"log/slog"
	"time"
)

// SessionExpirer removes abandoned upload wizard sessions.
type SessionExpirer interface {
	ExpireIdle(ctx context.Context) (int, error)
}

// TokenPruner forgets revoked tokens past their expiry.
type TokenPruner interface {
	PruneRevoked(now time.Time) int
}

type MaintenanceJobs struct {
	sessions SessionExpirer
	tokens   TokenPruner
}

func NewMaintenanceJobs(sessions SessionExpirer, tokens TokenPruner) *MaintenanceJobs {
	return &MaintenanceJobs{sessions: sessions, tokens: tokens}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("expire_upload_sessions", 10*time.Minute, j.ExpireUploadSessions)
	scheduler.AddJob("prune_revoked_tokens", time.Hour, j.PruneRevokedTokens)
}

func (j *MaintenanceJobs) ExpireUploadSessions(ctx context.Context) error {
	removed, err := j.sessions.ExpireIdle(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.Info("Cron: expired idle upload sessions", "count", removed)
	}
	return nil
}

func (j *MaintenanceJobs) PruneRevokedTokens(ctx context.Context) error {
	if pruned := j.tokens.PruneRevoked(time.Now()); pruned > 0 {
		slog.Info("Cron: pruned revoked tokens", "count", pruned)
	}
	return nil
}
