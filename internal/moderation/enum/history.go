package enum

import "fmt"

// HistoryState reports how an offense history was obtained, so callers can
// tell "confirmed zero prior offenses" apart from "could not determine".
type HistoryState int

const (
	// HistoryStateConfirmed indicates the history was read from the remote
	// store, the authoritative source.
	HistoryStateConfirmed HistoryState = iota
	// HistoryStateCached indicates the remote store was unreachable and the
	// history reflects the local cache (single-device view).
	HistoryStateCached
	// HistoryStateUnknown indicates neither the remote store nor the cache
	// had usable data; counts are zero but not trustworthy.
	HistoryStateUnknown
)

var historyStateNames = map[HistoryState]string{
	HistoryStateConfirmed: "confirmed",
	HistoryStateCached:    "cached",
	HistoryStateUnknown:   "unknown",
}

// String returns the wire name of the history state.
func (s HistoryState) String() string {
	if name, ok := historyStateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("HistoryState(%d)", int(s))
}
