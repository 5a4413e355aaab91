package utils

import "time"

// PermanentMs is the sentinel duration/expiry marking a permanent ban.
const PermanentMs int64 = -1

// NowMs returns the current wall-clock time in Unix milliseconds, the unit all
// ban timestamps are stored in.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// MsToTime converts a Unix-millisecond timestamp to a time.Time.
func MsToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// FormatMs renders a Unix-millisecond timestamp for ban reasons and CLI
// output. Returns "never" for the permanent sentinel and zero values.
func FormatMs(ms int64) string {
	if ms <= 0 {
		return "never"
	}

	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05 UTC")
}
