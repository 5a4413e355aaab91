package moderation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/setup/config"
	"github.com/eljasus/guardian/internal/store"
)

// Admin performs operator moderation actions against arbitrary users,
// bypassing the escalation decision but honoring the ban-record shape and
// the permanence rules, so manual and automatic bans stay consistent.
//
// Admin tooling runs on a different device than the target user, so it
// carries no local cache; affected clients converge through their own
// synchronizers.
type Admin struct {
	store   store.Store
	history *HistoryStore
	bans    *Bans
	logger  *zap.Logger
}

// NewAdmin creates the operator surface over the remote store.
func NewAdmin(st store.Store, cfg *config.Moderation, logger *zap.Logger) *Admin {
	logger = logger.Named("admin")
	history := NewHistory(st, nil, logger)
	bans := NewBans(st, nil, history, NopNotifier{}, cfg, logger)

	return &Admin{
		store:   st,
		history: history,
		bans:    bans,
		logger:  logger,
	}
}

// BanUser issues a manual ban. durationMs of utils.PermanentMs makes the ban
// permanent; zero selects the default duration. The permanence threshold
// still applies: a third ban is permanent no matter what was requested.
func (a *Admin) BanUser(ctx context.Context, targetID, displayName, reason string,
	category enum.Category, durationMs int64, adminID string,
) (*types.BanRecord, error) {
	if targetID == "" {
		return nil, ErrNoTargetUser
	}

	if reason == "" {
		reason = fmt.Sprintf("operator decision (%s)", category)
	}

	return a.bans.Issue(ctx, targetID, displayName, reason, category, durationMs, adminID)
}

// LiftBan removes a user's active ban and their admin-lookup index entry and
// resets their warnings. Idempotent.
func (a *Admin) LiftBan(ctx context.Context, targetID string) error {
	if targetID == "" {
		return ErrNoTargetUser
	}

	return a.bans.Lift(ctx, targetID)
}

// Profile returns a user's offense history and active ban, self-healing an
// expired record on the way.
func (a *Admin) Profile(ctx context.Context, targetID string) (types.History, *types.BanRecord, error) {
	if targetID == "" {
		return types.History{}, nil, ErrNoTargetUser
	}

	history := a.history.Fetch(ctx, targetID)
	if history.State == enum.HistoryStateUnknown {
		return history, nil, fmt.Errorf("%w: %s", ErrHistoryUnavailable, targetID)
	}

	return history, a.bans.Active(ctx, targetID), nil
}
