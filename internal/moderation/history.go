package moderation

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/store"
)

// HistoryStore reads and writes per-user warning counters and ban history,
// reconciling the remote store with the local cache. The remote store is
// authoritative whenever reachable; every successful remote read refreshes
// the cache. With no user identity (or no store), the cache is all there is
// and at most one ban is trackable.
type HistoryStore struct {
	store  store.Store // nil when offline
	cache  cache.Cache // nil for cacheless tooling
	logger *zap.Logger
	group  singleflight.Group // Dedupes concurrent fetches per user
}

// NewHistory creates a history store over the given collaborators. Either
// may be nil; a nil store forces cache-only operation and a nil cache
// disables the offline fallback.
func NewHistory(st store.Store, c cache.Cache, logger *zap.Logger) *HistoryStore {
	return &HistoryStore{
		store:  st,
		cache:  c,
		logger: logger.Named("history"),
	}
}

// Fetch summarizes the user's offense record. Remote read failure degrades
// to the cached view rather than assuming innocence; the State field tells
// the caller which view it got.
func (h *HistoryStore) Fetch(ctx context.Context, userID string) types.History {
	if userID == "" || h.store == nil {
		return h.cachedHistory()
	}

	result, _, _ := h.group.Do(userID, func() (any, error) {
		return h.fetchRemote(ctx, userID), nil
	})

	return result.(types.History)
}

// AddWarning increments the warning counter by one, remote first, and mirrors
// the new count into the cache. Returns the new count. Read-modify-write with
// no atomicity guarantee; a single user's message stream is serialized at the
// call site.
func (h *HistoryStore) AddWarning(ctx context.Context, userID string) int {
	if userID == "" || h.store == nil {
		count := h.cachedWarnings() + 1
		h.cacheWarnings(count)

		return count
	}

	count := h.remoteWarnings(ctx, userID) + 1

	err := h.store.Write(ctx, store.PlayerWarningsPath(userID), strconv.Itoa(count))
	if err != nil {
		h.logger.Warn("Failed to persist warning count",
			zap.String("userID", userID),
			zap.Int("count", count),
			zap.Error(err))
	}

	h.cacheWarnings(count)

	return count
}

// ResetWarnings zeroes the warning counter remotely and locally. Called when
// a ban is issued or lifted; the warnings are spent into the ban.
func (h *HistoryStore) ResetWarnings(ctx context.Context, userID string) error {
	h.cacheWarnings(0)

	if userID == "" || h.store == nil {
		return nil
	}

	return h.store.Write(ctx, store.PlayerWarningsPath(userID), "0")
}

// fetchRemote assembles the history from the remote store, falling back to
// the cache on the first failed read.
func (h *HistoryStore) fetchRemote(ctx context.Context, userID string) types.History {
	warnings, err := h.readRemoteInt(ctx, store.PlayerWarningsPath(userID))
	if err != nil {
		return h.degraded(userID, err)
	}

	totalBans, err := h.readRemoteInt(ctx, store.PlayerTotalBansPath(userID))
	if err != nil {
		return h.degraded(userID, err)
	}

	history := types.History{
		WarningCount: warnings,
		TotalBans:    totalBans,
		State:        enum.HistoryStateConfirmed,
	}

	// Authoritative read succeeded, refresh the mirror
	h.cacheWarnings(warnings)

	active, err := h.readActiveBan(ctx, userID)
	if err != nil {
		return h.degraded(userID, err)
	}

	last := active
	if last == nil {
		entries, err := h.readBanHistory(ctx, userID)
		if err != nil {
			return h.degraded(userID, err)
		}

		last = types.MostRecent(nil, entries)
	}

	if last != nil {
		history.LastBanReason = last.Reason
		history.LastBanAtMs = last.BannedAtMs
	}

	return history
}

// readActiveBan reads the active ban slot and mirrors it into the cache.
func (h *HistoryStore) readActiveBan(ctx context.Context, userID string) (*types.BanRecord, error) {
	value, present, err := h.store.Read(ctx, store.PlayerBanPath(userID))
	if err != nil {
		return nil, err
	}

	if !present {
		if h.cache != nil {
			h.cache.Remove(cache.BanKey)
		}

		return nil, nil
	}

	record, err := decodeRecord(value)
	if err != nil {
		h.logger.Warn("Malformed active ban record, treating as absent",
			zap.String("userID", userID),
			zap.Error(err))

		return nil, nil
	}

	if h.cache != nil {
		h.cache.Set(cache.BanKey, value)
	}

	return record, nil
}

// readBanHistory reads the append-only ban log.
func (h *HistoryStore) readBanHistory(ctx context.Context, userID string) ([]types.BanRecord, error) {
	tree, err := h.store.ReadTree(ctx, store.PlayerHistoryPath(userID))
	if err != nil {
		return nil, err
	}

	entries := make([]types.BanRecord, 0, len(tree))

	for key, value := range tree {
		record, err := decodeRecord(value)
		if err != nil {
			h.logger.Warn("Malformed ban history entry, skipping",
				zap.String("userID", userID),
				zap.String("entry", key),
				zap.Error(err))

			continue
		}

		entries = append(entries, *record)
	}

	return entries, nil
}

// readRemoteInt reads an integer counter, treating absence as zero.
func (h *HistoryStore) readRemoteInt(ctx context.Context, path string) (int, error) {
	value, present, err := h.store.Read(ctx, path)
	if err != nil {
		return 0, err
	}

	if !present {
		return 0, nil
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		h.logger.Warn("Malformed counter value, treating as zero",
			zap.String("path", path),
			zap.String("value", value))

		return 0, nil
	}

	return count, nil
}

// remoteWarnings reads the remote warning counter, falling back to the cached
// count on failure.
func (h *HistoryStore) remoteWarnings(ctx context.Context, userID string) int {
	count, err := h.readRemoteInt(ctx, store.PlayerWarningsPath(userID))
	if err != nil {
		h.logger.Warn("Failed to read warning count, using cached value",
			zap.String("userID", userID),
			zap.Error(err))

		return h.cachedWarnings()
	}

	return count
}

// degraded reports the cache view after a failed remote read.
func (h *HistoryStore) degraded(userID string, err error) types.History {
	h.logger.Warn("Remote history read failed, degrading to cache",
		zap.String("userID", userID),
		zap.Error(err))

	return h.cachedHistory()
}

// cachedHistory builds the history from the local cache alone. Only the
// current ban is trackable offline, so TotalBans is at most one.
func (h *HistoryStore) cachedHistory() types.History {
	history := types.History{State: enum.HistoryStateUnknown}

	if h.cache == nil {
		return history
	}

	hadData := false

	if value, ok := h.cache.Get(cache.WarningsKey); ok {
		if count, err := strconv.Atoi(value); err == nil {
			history.WarningCount = count
			hadData = true
		}
	}

	if value, ok := h.cache.Get(cache.BanKey); ok {
		if record, err := decodeRecord(value); err == nil {
			history.TotalBans = 1
			history.LastBanReason = record.Reason
			history.LastBanAtMs = record.BannedAtMs
			hadData = true
		}
	}

	if hadData {
		history.State = enum.HistoryStateCached
	}

	return history
}

// cachedWarnings parses the cached warning counter, treating malformed or
// missing values as zero.
func (h *HistoryStore) cachedWarnings() int {
	if h.cache == nil {
		return 0
	}

	value, ok := h.cache.Get(cache.WarningsKey)
	if !ok {
		return 0
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}

	return count
}

// cacheWarnings mirrors a warning count into the cache.
func (h *HistoryStore) cacheWarnings(count int) {
	if h.cache != nil {
		h.cache.Set(cache.WarningsKey, strconv.Itoa(count))
	}
}
