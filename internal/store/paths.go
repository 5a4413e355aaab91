package store

import "strconv"

// Path layout used by the game's realtime database. Documented for
// compatibility with existing deployments; other tooling reads these paths.
//
//	players/<id>/ban                   active ban record (JSON)
//	players/<id>/moderationWarnings    warning counter (integer string)
//	players/<id>/totalBans             lifetime ban counter (integer string)
//	players/<id>/banHistory/<ms>       append-only ban log keyed by issue time
//	banned_users/<id>                  flat admin-lookup index (JSON)
const (
	playersRoot     = "players"
	bannedUsersRoot = "banned_users"
)

// PlayerBanPath is the active-ban slot for a user.
func PlayerBanPath(userID string) string {
	return playersRoot + "/" + userID + "/ban"
}

// PlayerWarningsPath is the warning counter for a user.
func PlayerWarningsPath(userID string) string {
	return playersRoot + "/" + userID + "/moderationWarnings"
}

// PlayerTotalBansPath is the lifetime ban counter for a user.
func PlayerTotalBansPath(userID string) string {
	return playersRoot + "/" + userID + "/totalBans"
}

// PlayerHistoryPath is the root of a user's append-only ban log.
func PlayerHistoryPath(userID string) string {
	return playersRoot + "/" + userID + "/banHistory"
}

// PlayerHistoryEntryPath is one ban-log entry, keyed by issue timestamp.
func PlayerHistoryEntryPath(userID string, bannedAtMs int64) string {
	return PlayerHistoryPath(userID) + "/" + strconv.FormatInt(bannedAtMs, 10)
}

// BannedIndexPath is the admin-lookup index entry for a user.
func BannedIndexPath(userID string) string {
	return bannedUsersRoot + "/" + userID
}
