// Package moderation implements the chat moderation escalation engine:
// warn, then temporary ban, then permanent ban, kept consistent with the
// remote realtime store by a push-plus-poll synchronizer.
package moderation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/internal/setup/config"
	"github.com/eljasus/guardian/internal/store"
	"github.com/eljasus/guardian/pkg/utils"
)

// SessionParams gathers the collaborators a session is built from.
type SessionParams struct {
	// UserID identifies the player in the remote store. Empty for anonymous
	// or offline play; enforcement then degrades to the local cache.
	UserID string
	// DisplayName tags the admin-lookup index entry.
	DisplayName string
	// Store is the remote realtime store adapter. May be nil when offline.
	Store store.Store
	// Cache is the local persistent cache. Defaults to an in-memory cache.
	Cache cache.Cache
	// Notifier receives presentation hand-offs. Defaults to NopNotifier.
	Notifier Notifier
	// Config holds the escalation policy. Defaults to config.DefaultConfig().
	Config *config.Moderation
	// Logger is required.
	Logger *zap.Logger
}

// Session binds the moderation engine to one user for the lifetime of a
// play session. It owns the enforcement state for this device; there is one
// instance per active user, never process-wide mutable state.
type Session struct {
	id          string
	userID      string
	displayName string

	store      store.Store
	cache      cache.Cache
	classifier *Classifier
	history    *HistoryStore
	bans       *Bans
	notifier   Notifier
	cfg        *config.Moderation
	logger     *zap.Logger
	now        func() int64

	sync synchronizer
}

// NewSession creates a session for one user.
func NewSession(p SessionParams) *Session {
	if p.Cache == nil {
		p.Cache = cache.NewMemory()
	}

	if p.Notifier == nil {
		p.Notifier = NopNotifier{}
	}

	if p.Config == nil {
		p.Config = &config.DefaultConfig().Moderation
	}

	id := uuid.New().String()
	logger := p.Logger.Named("moderation").With(
		zap.String("sessionID", id),
		zap.String("userID", p.UserID),
	)

	history := NewHistory(p.Store, p.Cache, logger)
	bans := NewBans(p.Store, p.Cache, history, p.Notifier, p.Config, logger)

	s := &Session{
		id:          id,
		userID:      p.UserID,
		displayName: p.DisplayName,
		store:       p.Store,
		cache:       p.Cache,
		classifier:  NewClassifier(),
		history:     history,
		bans:        bans,
		notifier:    p.Notifier,
		cfg:         p.Config,
		logger:      logger,
		now:         utils.NowMs,
	}

	return s
}

// WithClock overrides the wall clock for the session and its ban manager.
// Test hook.
func (s *Session) WithClock(now func() int64) *Session {
	s.now = now
	s.bans.WithClock(now)

	return s
}

// ID returns the session's correlation identifier.
func (s *Session) ID() string {
	return s.id
}

// Bans exposes the session's ban manager for enforcement tooling.
func (s *Session) Bans() *Bans {
	return s.bans
}

// synchronizer holds the real-time synchronization state guarded by the
// session. See sync.go for the behavior.
type synchronizer struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       *conc.WaitGroup
	enforced *types.BanRecord
}
