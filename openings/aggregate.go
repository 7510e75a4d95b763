/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package openings

import (
	"sort"
	"strings"
	"unicode"
)

// OpeningCount is one main line and the number of games merged into it.
type OpeningCount struct {
	Opening string
	Count   int
}

// Canonicalize strips trailing move-notation segments from a hyphenated
// opening name, e.g. "Italian-Game-Giuoco-Piano-4-Nf6" becomes
// "Italian-Game-Giuoco-Piano". A name with no descriptive segment at all
// canonicalizes to "".
func Canonicalize(name string) string {
	segments := strings.Split(name, "-")
	for len(segments) > 0 && !isAlpha(segments[len(segments)-1]) {
		segments = segments[:len(segments)-1]
	}

	return strings.Join(segments, "-")
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Aggregate folds side lines into their main lines and returns the main
// lines ordered by count, most frequent first.
//
// After canonicalizing and sorting, each unconsumed entry absorbs the run
// of entries immediately following it that contain it as a substring. The
// run ends at the first entry that doesn't, even if a later one would
// match again, so groups that are not contiguous after sorting are split.
func Aggregate(rawNames []string) []OpeningCount {
	names := make([]string, 0, len(rawNames))
	for _, raw := range rawNames {
		if raw == "" {
			continue
		}
		if c := Canonicalize(raw); c != "" {
			names = append(names, c)
		}
	}
	sort.Strings(names)

	var ret []OpeningCount
	index := make(map[string]int)
	count := func(key string) {
		idx, ok := index[key]
		if !ok {
			idx = len(ret)
			index[key] = idx
			ret = append(ret, OpeningCount{Opening: key})
		}
		ret[idx].Count++
	}

	for i := 0; i < len(names); {
		key := names[i]
		count(key)
		lastMatched := i
		for j := i + 1; j < len(names); j++ {
			if !strings.Contains(names[j], key) {
				break
			}
			count(key)
			lastMatched = j
		}
		i = lastMatched + 1
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Count > ret[j].Count
	})

	return ret
}
