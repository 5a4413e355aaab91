package moderation

import "github.com/eljasus/guardian/internal/moderation/types"

// Notifier is the hand-off to the presentation layer. Implementations render
// warn toasts, the full-screen ban overlay, and the unlock reload; the core
// only guarantees the calls happen at the right points in the state machine.
type Notifier interface {
	// Warned reports a recorded warning. lastWarning is true when the next
	// offense will result in a ban.
	Warned(count int, lastWarning bool)

	// Banned reports that a ban is in force. Called when a ban is issued and
	// again whenever the synchronizer sees an updated active record.
	Banned(record *types.BanRecord)

	// Unbanned reports that a previously enforced ban is gone (expiry or
	// admin lift) and the UI should unlock.
	Unbanned()
}

// NopNotifier discards all notifications. Used by headless tooling such as
// the admin CLI.
type NopNotifier struct{}

func (NopNotifier) Warned(int, bool)        {}
func (NopNotifier) Banned(*types.BanRecord) {}
func (NopNotifier) Unbanned()               {}
