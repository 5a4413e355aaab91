package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/setup/config"
	"github.com/eljasus/guardian/internal/store"
	"github.com/eljasus/guardian/pkg/utils"
)

// Bans constructs, persists, and expires ban records. The set of writes
// behind one issued ban is a single logical transaction from the caller's
// perspective; the underlying store has no multi-key atomicity, so the real
// guarantee is "mostly consistent, repaired by the synchronizer".
type Bans struct {
	store    store.Store // nil when offline
	cache    cache.Cache // nil for cacheless tooling
	history  *HistoryStore
	notifier Notifier
	cfg      *config.Moderation
	logger   *zap.Logger
	now      func() int64
}

// NewBans creates a ban manager over the given collaborators.
func NewBans(st store.Store, c cache.Cache, history *HistoryStore, notifier Notifier,
	cfg *config.Moderation, logger *zap.Logger,
) *Bans {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Bans{
		store:    st,
		cache:    c,
		history:  history,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.Named("bans"),
		now:      utils.NowMs,
	}
}

// WithClock overrides the wall clock. Test hook.
func (b *Bans) WithClock(now func() int64) *Bans {
	b.now = now

	return b
}

// Issue creates and persists a new ban for the user. requestedDurationMs of
// utils.PermanentMs makes the ban permanent; zero selects the configured
// default duration. Once a user's ban count reaches the permanence threshold
// every ban is permanent regardless of the requested duration.
func (b *Bans) Issue(ctx context.Context, userID, displayName, reason string,
	category enum.Category, requestedDurationMs int64, issuedBy string,
) (*types.BanRecord, error) {
	history := b.history.Fetch(ctx, userID)
	banCount := history.TotalBans + 1

	permanent := requestedDurationMs == utils.PermanentMs || banCount >= b.cfg.PermBanThreshold

	durationMs := requestedDurationMs
	if durationMs == 0 {
		durationMs = b.cfg.BanDurationMs
	}

	nowMs := b.now()
	expiresAtMs := nowMs + durationMs

	if permanent {
		durationMs = utils.PermanentMs
		expiresAtMs = utils.PermanentMs
	}

	record := &types.BanRecord{
		Reason:      reason,
		Category:    category,
		BannedAtMs:  nowMs,
		ExpiresAtMs: expiresAtMs,
		DurationMs:  durationMs,
		IssuedBy:    issuedBy,
		Permanent:   permanent,
		BanCount:    banCount,
	}

	if err := b.persist(ctx, userID, displayName, record); err != nil {
		b.logger.Error("Ban persisted incompletely",
			zap.String("userID", userID),
			zap.Int("banCount", banCount),
			zap.Error(err))
	}

	b.notifier.Banned(record)

	b.logger.Info("Ban issued",
		zap.String("userID", userID),
		zap.String("category", category.String()),
		zap.Bool("permanent", permanent),
		zap.Int("banCount", banCount),
		zap.String("issuedBy", issuedBy))

	return record, nil
}

// Lift clears the active ban and the admin-lookup index entry and resets
// warnings, locally and remotely. Idempotent: lifting a non-existent ban is
// a no-op.
func (b *Bans) Lift(ctx context.Context, userID string) error {
	if b.cache != nil {
		b.cache.Remove(cache.BanKey)
		b.cache.Set(cache.WarningsKey, "0")
	}

	if userID == "" || b.store == nil {
		return nil
	}

	var errs []error

	if err := b.store.Delete(ctx, store.PlayerBanPath(userID)); err != nil {
		errs = append(errs, err)
	}

	if err := b.store.Delete(ctx, store.BannedIndexPath(userID)); err != nil {
		errs = append(errs, err)
	}

	if err := b.store.Write(ctx, store.PlayerWarningsPath(userID), "0"); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to lift ban for %s: %w", userID, err)
	}

	return nil
}

// Active returns the user's enforced ban, or nil. Remote first with cache
// fallback; a record found expired is lifted on the spot rather than
// returned, so a stale remote slot self-heals. The client never decides
// expiry from the cache alone while the store is reachable.
func (b *Bans) Active(ctx context.Context, userID string) *types.BanRecord {
	record := b.fetchActive(ctx, userID)
	if record == nil {
		return nil
	}

	if record.IsExpired(b.now()) {
		if err := b.Lift(ctx, userID); err != nil {
			b.logger.Warn("Failed to lift expired ban",
				zap.String("userID", userID),
				zap.Error(err))
		}

		return nil
	}

	return record
}

// fetchActive reads the active ban slot, remote first, cache as fallback.
func (b *Bans) fetchActive(ctx context.Context, userID string) *types.BanRecord {
	if userID != "" && b.store != nil {
		value, present, err := b.store.Read(ctx, store.PlayerBanPath(userID))
		switch {
		case err != nil:
			b.logger.Warn("Failed to read active ban, falling back to cache",
				zap.String("userID", userID),
				zap.Error(err))

		case !present:
			// Authoritative absence
			if b.cache != nil {
				b.cache.Remove(cache.BanKey)
			}

			return nil

		default:
			record, err := decodeRecord(value)
			if err != nil {
				b.logger.Warn("Malformed active ban record, treating as absent",
					zap.String("userID", userID),
					zap.Error(err))

				return nil
			}

			if b.cache != nil {
				b.cache.Set(cache.BanKey, value)
			}

			return record
		}
	}

	return b.cachedActive()
}

// cachedActive decodes the cached ban record, if any.
func (b *Bans) cachedActive() *types.BanRecord {
	if b.cache == nil {
		return nil
	}

	value, ok := b.cache.Get(cache.BanKey)
	if !ok {
		return nil
	}

	record, err := decodeRecord(value)
	if err != nil {
		b.logger.Warn("Malformed cached ban record, discarding", zap.Error(err))
		b.cache.Remove(cache.BanKey)

		return nil
	}

	return record
}

// persist writes the record everywhere it lives: cache, active slot, history
// log, counters, and the admin-lookup index. Best effort; every write is
// attempted even after earlier failures.
func (b *Bans) persist(ctx context.Context, userID, displayName string, record *types.BanRecord) error {
	encoded, err := sonic.MarshalString(record)
	if err != nil {
		return fmt.Errorf("failed to encode ban record: %w", err)
	}

	if b.cache != nil {
		b.cache.Set(cache.BanKey, encoded)
		b.cache.Set(cache.WarningsKey, "0")
	}

	if userID == "" || b.store == nil {
		return nil
	}

	var errs []error

	if err := b.store.Write(ctx, store.PlayerBanPath(userID), encoded); err != nil {
		errs = append(errs, err)
	}

	if err := b.store.Write(ctx, store.PlayerHistoryEntryPath(userID, record.BannedAtMs), encoded); err != nil {
		errs = append(errs, err)
	}

	if err := b.store.Write(ctx, store.PlayerTotalBansPath(userID), strconv.Itoa(record.BanCount)); err != nil {
		errs = append(errs, err)
	}

	if err := b.store.Write(ctx, store.PlayerWarningsPath(userID), "0"); err != nil {
		errs = append(errs, err)
	}

	index, err := sonic.MarshalString(&types.IndexEntry{
		DisplayName: displayName,
		Record:      *record,
	})
	if err != nil {
		errs = append(errs, err)
	} else if err := b.store.Write(ctx, store.BannedIndexPath(userID), index); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// decodeRecord parses a serialized ban record.
func decodeRecord(value string) (*types.BanRecord, error) {
	var record types.BanRecord
	if err := sonic.UnmarshalString(value, &record); err != nil {
		return nil, fmt.Errorf("failed to decode ban record: %w", err)
	}

	return &record, nil
}
