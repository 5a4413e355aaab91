package moderation_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/moderation"
	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/setup/config"
	"github.com/eljasus/guardian/internal/store"
)

const (
	syncWait = 2 * time.Second
	syncTick = 10 * time.Millisecond

	// Time for the subscription to register before the first write.
	attachSettle = 150 * time.Millisecond
)

func encodeTestRecord(t *testing.T, record *types.BanRecord) string {
	t.Helper()

	encoded, err := sonic.MarshalString(record)
	require.NoError(t, err)

	return encoded
}

func TestAttachPushesRemoteBan(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	rec := &recorder{}
	session := newTestSession(t, st, rec)
	ctx := t.Context()

	session.Attach(ctx)
	defer session.Detach()

	time.Sleep(attachSettle)

	record := &types.BanRecord{
		Reason:      "operator decision",
		Category:    enum.CategoryAdminDecision,
		BannedAtMs:  testNowMs,
		ExpiresAtMs: testNowMs + weekMs,
		DurationMs:  weekMs,
		IssuedBy:    "op-7",
		BanCount:    1,
	}
	require.NoError(t, st.Write(ctx, store.PlayerBanPath(testUser), encodeTestRecord(t, record)))

	require.Eventually(t, func() bool {
		return rec.banCount() >= 1
	}, syncWait, syncTick)

	assert.Equal(t, record, rec.lastBanned())
	assert.Equal(t, record, session.Enforced())
}

func TestAttachPushesRemoteLift(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	rec := &recorder{}
	session := newTestSession(t, st, rec)
	ctx := t.Context()

	record := &types.BanRecord{
		Reason:      "blocked words in chat",
		BannedAtMs:  testNowMs,
		ExpiresAtMs: testNowMs + weekMs,
		DurationMs:  weekMs,
		IssuedBy:    types.SystemIssuer,
		BanCount:    1,
	}
	require.NoError(t, st.Write(ctx, store.PlayerBanPath(testUser), encodeTestRecord(t, record)))

	session.Attach(ctx)
	defer session.Detach()

	// The subscription fires once with the pre-existing ban
	require.Eventually(t, func() bool {
		return rec.banCount() >= 1
	}, syncWait, syncTick)

	// An admin lift on another device deletes the slot
	require.NoError(t, st.Delete(ctx, store.PlayerBanPath(testUser)))

	require.Eventually(t, func() bool {
		return rec.unbanCount() >= 1
	}, syncWait, syncTick)

	assert.Nil(t, session.Enforced())
}

func TestAttachSelfHealsExpiredRecord(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	rec := &recorder{}
	session := newTestSession(t, st, rec)
	ctx := t.Context()

	session.Attach(ctx)
	defer session.Detach()

	time.Sleep(attachSettle)

	stale := &types.BanRecord{
		Reason:      "blocked words in chat",
		BannedAtMs:  testNowMs - 2*weekMs,
		ExpiresAtMs: testNowMs - weekMs,
		DurationMs:  weekMs,
		IssuedBy:    types.SystemIssuer,
		BanCount:    1,
	}
	require.NoError(t, st.Write(ctx, store.PlayerBanPath(testUser), encodeTestRecord(t, stale)))

	// The expired record is lifted from the store, not enforced
	require.Eventually(t, func() bool {
		_, present, err := st.Read(ctx, store.PlayerBanPath(testUser))
		return err == nil && !present
	}, syncWait, syncTick)

	assert.Zero(t, rec.banCount())
	assert.Nil(t, session.Enforced())
}

func TestDetachStopsNotifications(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	rec := &recorder{}
	session := newTestSession(t, st, rec)
	ctx := t.Context()

	session.Attach(ctx)
	time.Sleep(attachSettle)

	record := &types.BanRecord{
		Reason:      "blocked words in chat",
		BannedAtMs:  testNowMs,
		ExpiresAtMs: testNowMs + weekMs,
		DurationMs:  weekMs,
		IssuedBy:    types.SystemIssuer,
		BanCount:    1,
	}
	require.NoError(t, st.Write(ctx, store.PlayerBanPath(testUser), encodeTestRecord(t, record)))

	require.Eventually(t, func() bool {
		return rec.banCount() >= 1
	}, syncWait, syncTick)

	session.Detach()
	before := rec.banCount()

	require.NoError(t, st.Write(ctx, store.PlayerBanPath(testUser), encodeTestRecord(t, record)))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, before, rec.banCount())
}

func TestPollExpiresCachedBanOffline(t *testing.T) {
	t.Parallel()

	clock := &atomic.Int64{}
	clock.Store(testNowMs)

	cfg := config.DefaultConfig().Moderation
	cfg.PollIntervalSeconds = 1

	c := cache.NewMemory()
	rec := &recorder{}
	session := moderation.NewSession(moderation.SessionParams{
		Cache:    c,
		Notifier: rec,
		Config:   &cfg,
		Logger:   zap.NewNop(),
	}).WithClock(clock.Load)
	ctx := t.Context()

	record := &types.BanRecord{
		Reason:      "blocked words in chat",
		BannedAtMs:  testNowMs,
		ExpiresAtMs: testNowMs + weekMs,
		DurationMs:  weekMs,
		IssuedBy:    types.SystemIssuer,
		BanCount:    1,
	}
	c.Set(cache.BanKey, encodeTestRecord(t, record))

	require.True(t, session.CheckOnStart(ctx))
	require.Equal(t, 1, rec.banCount())

	session.Attach(ctx)
	defer session.Detach()

	// The ban runs out while the session is live; the next poll notices
	clock.Store(testNowMs + weekMs + 1)

	require.Eventually(t, func() bool {
		return rec.unbanCount() >= 1
	}, 3*time.Second, syncTick)

	assert.Nil(t, session.Enforced())

	_, ok := c.Get(cache.BanKey)
	assert.False(t, ok)
}
