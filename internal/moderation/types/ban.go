package types

import (
	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/pkg/utils"
)

// SystemIssuer marks bans issued by the escalation engine rather than an
// operator.
const SystemIssuer = "system"

// BanRecord represents one enforced lockout. Records are immutable once
// created: an active ban is cleared by writing the slot empty, never by
// mutating the record, and history entries are never touched again.
type BanRecord struct {
	Reason      string        `json:"reason"`      // Human-readable, may aggregate multiple causes
	Category    enum.Category `json:"category"`    // Offense class that triggered the ban
	BannedAtMs  int64         `json:"bannedAt"`    // When the ban was issued (Unix ms)
	ExpiresAtMs int64         `json:"expiresAt"`   // When the ban expires (-1 for permanent)
	DurationMs  int64         `json:"duration"`    // Requested duration (-1 for permanent)
	IssuedBy    string        `json:"issuedBy"`    // "system" or an admin identifier
	Permanent   bool          `json:"isPermanent"` // Derived: true iff DurationMs == -1
	BanCount    int           `json:"banCount"`    // Ordinal of this ban for the user (1st, 2nd, ...)
}

// IsExpired checks if the ban has lapsed at the given wall-clock time.
// Permanent bans never expire.
func (r *BanRecord) IsExpired(nowMs int64) bool {
	if r.Permanent {
		return false
	}

	return nowMs >= r.ExpiresAtMs
}

// RemainingMs returns how long the ban has left at the given time, for the
// presentation countdown. Returns utils.PermanentMs for permanent bans and 0
// once expired.
func (r *BanRecord) RemainingMs(nowMs int64) int64 {
	if r.Permanent {
		return utils.PermanentMs
	}

	if nowMs >= r.ExpiresAtMs {
		return 0
	}

	return r.ExpiresAtMs - nowMs
}

// IsSystemBan checks if the ban was issued by the escalation engine.
func (r *BanRecord) IsSystemBan() bool {
	return r.IssuedBy == SystemIssuer
}

// IndexEntry mirrors an active ban into the flat banned_users lookup used by
// administrative tooling. The entry is removed outright when the ban lifts.
type IndexEntry struct {
	DisplayName string    `json:"displayName"`
	Record      BanRecord `json:"record"`
}
