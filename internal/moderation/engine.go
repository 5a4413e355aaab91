package moderation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/moderation/enum"
	"github.com/eljasus/guardian/internal/moderation/types"
	"github.com/eljasus/guardian/pkg/utils"
)

// Scan is the decision procedure invoked per chat message. It returns true
// when the message must not be transmitted, whether the offense resulted in
// a warning or a ban. Clean text returns false with no side effects.
//
// The decision is evaluated fresh on every call. All internal failures are
// absorbed and logged; Scan always resolves to a boolean.
func (s *Session) Scan(ctx context.Context, text string) bool {
	classification := s.classifier.Classify(text)
	if !classification.Offending {
		return false
	}

	history := s.history.Fetch(ctx, s.userID)

	s.logger.Info("Offending message blocked",
		zap.String("category", classification.Category.String()),
		zap.Int("warningCount", history.WarningCount),
		zap.Int("totalBans", history.TotalBans),
		zap.String("historyState", history.State.String()))

	// Zero tolerance: any prior warning or any lifetime ban means an
	// immediate ban, never a second warning.
	if history.HasPriorRecord() {
		durationMs := int64(0)
		if history.WarningCount >= 1 && history.TotalBans >= 1 {
			// Both escalation paths at once: permanent, regardless of the
			// permanence threshold.
			durationMs = utils.PermanentMs
		}

		s.issueBan(ctx, s.escalationReason(classification.Category, history), classification.Category, durationMs)

		return true
	}

	// First offense: record a warning.
	count := s.history.AddWarning(ctx, s.userID)
	if count >= s.cfg.WarnLimit {
		reason := fmt.Sprintf("reached the warning limit for blocked words in chat (%s)",
			classification.Category)
		s.issueBan(ctx, reason, classification.Category, 0)

		return true
	}

	s.notifier.Warned(count, count+1 >= s.cfg.WarnLimit)

	return true
}

// CheckOnStart enforces an existing ban when a session begins: remote first,
// cache fallback, expiry self-healed. Returns true when the user is blocked
// from playing.
func (s *Session) CheckOnStart(ctx context.Context) bool {
	record := s.bans.Active(ctx, s.userID)
	if record == nil {
		return false
	}

	s.setEnforced(record)
	s.notifier.Banned(record)

	return true
}

// Lift clears this user's ban, for example after a successful appeal handled
// in-client. Idempotent.
func (s *Session) Lift(ctx context.Context) error {
	if err := s.bans.Lift(ctx, s.userID); err != nil {
		return err
	}

	if s.clearEnforced() {
		s.notifier.Unbanned()
	}

	return nil
}

// issueBan issues a ban through the manager, absorbing failures.
func (s *Session) issueBan(ctx context.Context, reason string, category enum.Category, durationMs int64) {
	record, err := s.bans.Issue(ctx, s.userID, s.displayName, reason, category, durationMs, types.SystemIssuer)
	if err != nil {
		s.logger.Error("Failed to issue ban", zap.Error(err))
		return
	}

	s.setEnforced(record)
}

// escalationReason composes the human-readable ban reason: the offense
// category plus why escalation triggered.
func (s *Session) escalationReason(category enum.Category, history types.History) string {
	reason := fmt.Sprintf("blocked words in chat (%s) after a prior record", category)

	if history.WarningCount >= 1 {
		reason += fmt.Sprintf("; active warnings: %d", history.WarningCount)
	}

	if history.TotalBans >= 1 {
		reason += fmt.Sprintf("; previous bans: %d", history.TotalBans)
		if history.LastBanReason != "" {
			reason += fmt.Sprintf(", last on %s (%s)",
				utils.FormatMs(history.LastBanAtMs), history.LastBanReason)
		}
	}

	return reason
}
