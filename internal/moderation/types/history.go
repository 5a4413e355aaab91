package types

import "github.com/eljasus/guardian/internal/moderation/enum"

// History summarizes a user's offense record at the moment of a scan.
// A user with no profile has zero counts and a confirmed state.
type History struct {
	// WarningCount is the number of active, un-escalated warnings.
	WarningCount int
	// TotalBans is the cumulative ban count across the user's lifetime,
	// counting expired and lifted bans. Never decremented.
	TotalBans int
	// LastBanReason is the reason of the active ban if one exists, else of
	// the most recent history entry.
	LastBanReason string
	// LastBanAtMs is the issue time of the same record, 0 when none.
	LastBanAtMs int64
	// State reports whether these counts came from the remote store, the
	// local cache, or could not be determined at all.
	State enum.HistoryState
}

// HasPriorRecord reports whether the user has any active warning or any ban
// in their lifetime. Under the zero-tolerance rule such a user is banned, not
// warned, on their next offense.
func (h History) HasPriorRecord() bool {
	return h.WarningCount >= 1 || h.TotalBans >= 1
}

// MostRecent returns the later of an active ban and the newest history entry,
// the "most recent record wins" reducer used when summarizing a profile.
func MostRecent(active *BanRecord, history []BanRecord) *BanRecord {
	best := active

	for i := range history {
		if best == nil || history[i].BannedAtMs > best.BannedAtMs {
			best = &history[i]
		}
	}

	return best
}
