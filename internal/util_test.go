/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestParseDateOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"null", time.Time{}},
		{"????.??.??", time.Time{}},
		{"2021.??.??", time.Time{}},
		{"2021.03.04", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"2023-11-30", time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDateOrZero(c.in)
		if err != nil {
			t.Errorf("ParseDateOrZero(%q) returned error: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDateOrZero(%q) = %v; want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseDateOrZero("not a date"); err == nil {
		t.Errorf("expected an error for an unparseable date")
	}
}
