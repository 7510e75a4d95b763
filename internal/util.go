/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty, "null"
// or a PGN date with unknown components such as "????.??.??" or
// "2021.??.??".
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || strings.Contains(s, "?") {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}
