//go:build !linux

package dateresolve

import "time"

func birthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
