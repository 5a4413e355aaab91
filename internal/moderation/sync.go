package moderation

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/store"
)

// Attach starts real-time synchronization of this user's ban state: a push
// subscription on the ban path plus a periodic poll as a cross-check. Both
// feed the same reconciliation, so an admin ban, an admin lift, or an expiry
// lands on this device without user action.
//
// Exactly one subscription per session is live at a time; attaching again
// detaches the previous one first.
func (s *Session) Attach(ctx context.Context) {
	s.Detach()

	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()

	syncCtx, cancel := context.WithCancel(ctx)
	s.sync.cancel = cancel
	s.sync.wg = conc.NewWaitGroup()

	s.sync.wg.Go(func() {
		s.subscribeLoop(syncCtx)
	})
	s.sync.wg.Go(func() {
		s.pollLoop(syncCtx)
	})

	s.logger.Debug("Synchronizer attached")
}

// Detach cancels the push subscription and the poll timer and waits for both
// to stop. Nothing survives into a later Attach for a different context; a
// stale listener would leak enforcement state across identities.
func (s *Session) Detach() {
	s.sync.mu.Lock()
	cancel := s.sync.cancel
	wg := s.sync.wg
	s.sync.cancel = nil
	s.sync.wg = nil
	s.sync.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	wg.Wait()

	s.logger.Debug("Synchronizer detached")
}

// subscribeLoop keeps the push subscription alive, re-establishing it with
// exponential backoff when the connection drops.
func (s *Session) subscribeLoop(ctx context.Context) {
	if s.userID == "" || s.store == nil {
		return
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	_ = backoff.Retry(func() error {
		err := s.store.Subscribe(ctx, store.PlayerBanPath(s.userID), func(value string, present bool) {
			s.reconcile(ctx, value, present)
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("Ban subscription dropped, will retry", zap.Error(err))
			return err
		}

		return nil
	}, backoff.WithContext(policy, ctx))
}

// pollLoop re-validates ban state on a fixed interval as a fallback for
// missed push notifications.
func (s *Session) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.revalidate(ctx)
		}
	}
}

// revalidate reads the current remote ban state and reconciles it. Offline
// sessions fall back to checking the cached ban against the wall clock.
func (s *Session) revalidate(ctx context.Context) {
	if s.userID != "" && s.store != nil {
		value, present, err := s.store.Read(ctx, store.PlayerBanPath(s.userID))
		if err != nil {
			s.logger.Warn("Poll read failed", zap.Error(err))
			return
		}

		s.reconcile(ctx, value, present)

		return
	}

	// Offline: expire the cached ban locally once its time is up
	record := s.bans.cachedActive()
	if record != nil && record.IsExpired(s.now()) {
		if s.cache != nil {
			s.cache.Remove(cache.BanKey)
			s.cache.Set(cache.WarningsKey, "0")
		}

		if s.clearEnforced() {
			s.notifier.Unbanned()
		}
	}
}

// reconcile applies one observation of the remote ban slot to local state.
// Remote is authoritative: absence unlocks, an expired record is lifted so
// the store self-heals, and a current record refreshes the cache and the
// presentation layer (covering admin edits to an active ban).
func (s *Session) reconcile(ctx context.Context, value string, present bool) {
	if !present {
		s.applyAbsent()
		return
	}

	record, err := decodeRecord(value)
	if err != nil {
		s.logger.Warn("Malformed ban record from subscription, treating as absent", zap.Error(err))
		s.applyAbsent()

		return
	}

	if record.IsExpired(s.now()) {
		if err := s.bans.Lift(ctx, s.userID); err != nil {
			s.logger.Warn("Failed to lift expired ban", zap.Error(err))
		}

		if s.clearEnforced() {
			s.notifier.Unbanned()
		}

		return
	}

	if s.cache != nil {
		s.cache.Set(cache.BanKey, value)
	}

	s.setEnforced(record)
	s.notifier.Banned(record)
}

// applyAbsent handles an authoritative "no active ban" observation.
func (s *Session) applyAbsent() {
	if s.cache != nil {
		s.cache.Remove(cache.BanKey)
	}

	if s.clearEnforced() {
		s.notifier.Unbanned()
	}
}

// setEnforced records the ban this device is currently enforcing.
func (s *Session) setEnforced(record *types.BanRecord) {
	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()

	s.sync.enforced = record
}

// clearEnforced clears the enforcement view, reporting whether a ban was
// actually being enforced.
func (s *Session) clearEnforced() bool {
	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()

	had := s.sync.enforced != nil
	s.sync.enforced = nil

	return had
}

// Enforced returns the ban this device currently enforces, or nil.
func (s *Session) Enforced() *types.BanRecord {
	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()

	return s.sync.enforced
}
