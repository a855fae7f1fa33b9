// Package dates converts between Apple epoch nanosecond timestamps (as
// stored in the message table) and Go's time.Time.
package dates

import "time"

// AppleEpochUnixSeconds is the number of seconds between the Unix epoch
// (1970-01-01) and the Apple epoch (2001-01-01), both UTC.
const AppleEpochUnixSeconds int64 = 978307200

// TimestampFactor is the number of nanoseconds per second, used throughout
// spec.md §6/§8 to convert between second- and nanosecond-resolution
// quantities.
const TimestampFactor int64 = 1_000_000_000

// GetOffset returns the local timezone's current UTC offset in seconds,
// mirroring the original's get_offset() helper used by QueryContext's date
// sanitization.
func GetOffset() int64 {
	_, offset := time.Now().Local().Zone()
	return int64(offset)
}

// ToUnixNano converts an Apple-epoch nanosecond timestamp (local time, per
// spec.md §6: "apple_ns + (978307200 * 10^9) + tz_offset_ns") to a Unix
// nanosecond timestamp.
func ToUnixNano(appleNanos int64) int64 {
	return appleNanos + AppleEpochUnixSeconds*TimestampFactor + GetOffset()*TimestampFactor
}

// ToTime converts an Apple-epoch nanosecond timestamp to a local time.Time.
// Zero is treated as "unset" and returns the zero time.Time, matching
// spec.md §3 ("0 = unset") for date/date_read/date_delivered/date_edited.
func ToTime(appleNanos int64) time.Time {
	if appleNanos == 0 {
		return time.Time{}
	}
	unixNanos := ToUnixNano(appleNanos)
	return time.Unix(0, unixNanos).Local()
}

// Format renders t the way the export writers timestamp a transcript
// line: "2006-01-02 15:04:05". The zero time.Time (an unset date) formats
// as the empty string.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// FromTime converts a local time.Time back to an Apple-epoch nanosecond
// timestamp, the inverse of ToTime, for QueryContext date filters.
func FromTime(t time.Time) int64 {
	unixNanos := t.UnixNano()
	return unixNanos - AppleEpochUnixSeconds*TimestampFactor - GetOffset()*TimestampFactor
}
