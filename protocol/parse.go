// Package protocol serves the resource-fetch protocol: a GET-only request
// whose query names a snapshot position with `n=<index>`. Every failure is
// answered with an empty 404 so the display surface learns nothing about the
// filesystem beyond presence or absence.
package protocol

import (
	"strconv"
	"strings"
)

// indexParam is the only query parameter the protocol reads
const indexParam = "n"

// ParseIndex extracts the positional index from a raw query string such as
// `n=2&cc=a.jpg`. The value runs to the next `&` or the end of the query and
// must be plain decimal digits. Other parameters are ignored; only the first
// segment named exactly `n` counts.
func ParseIndex(rawQuery string) (int, bool) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	for seg := range strings.SplitSeq(rawQuery, "&") {
		key, val, found := strings.Cut(seg, "=")
		if key != indexParam {
			continue
		}
		if !found || !isDigits(val) {
			return 0, false
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			// overflow
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
