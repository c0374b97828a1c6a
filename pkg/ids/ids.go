// Package ids generates the short, time-ordered identifiers the storefront shows to customers.
package ids

import (
	"strconv"
	"time"
)

// Millis returns prefix followed by the unix millisecond timestamp of now. When
// the id is already taken the timestamp is bumped by one until it is free, so
// two records created in the same millisecond stay distinct.
func Millis(prefix string, now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	for {
		id := prefix + strconv.FormatInt(ms, 10)
		if taken == nil || !taken(id) {
			return id
		}
		ms++
	}
}
