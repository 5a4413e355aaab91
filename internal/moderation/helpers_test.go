package moderation_test

import (
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/store"
)

// newTestStore starts a miniredis server and wraps it in the rueidis adapter.
func newTestStore(t *testing.T) (store.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
		// miniredis answers CLUSTER commands, which makes rueidis pick its
		// cluster client; force the single-node client it would use against
		// the standalone server this store targets.
		ForceSingleClient: true,
		// miniredis rejects regular commands on a subscribed connection even
		// over RESP3; RESP2 mode gives pub/sub its own connection.
		AlwaysRESP2: true,
	})
	require.NoError(t, err)

	s := store.NewRueidis(client, zap.NewNop())
	t.Cleanup(s.Close)

	return s, mr
}

// warnEvent captures one Warned notification.
type warnEvent struct {
	count       int
	lastWarning bool
}

// recorder captures presentation notifications for assertions.
type recorder struct {
	mu       sync.Mutex
	warned   []warnEvent
	banned   []*types.BanRecord
	unbanned int
}

func (r *recorder) Warned(count int, lastWarning bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warned = append(r.warned, warnEvent{count, lastWarning})
}

func (r *recorder) Banned(record *types.BanRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.banned = append(r.banned, record)
}

func (r *recorder) Unbanned() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unbanned++
}

func (r *recorder) warnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.warned)
}

func (r *recorder) banCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.banned)
}

func (r *recorder) unbanCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unbanned
}

func (r *recorder) lastBanned() *types.BanRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.banned) == 0 {
		return nil
	}

	return r.banned[len(r.banned)-1]
}
