/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import "fmt"

const (
	MethodOverlap = "overlap"
	MethodJaccard = "jaccard"
)

func moveSet(moves []string) map[string]struct{} {
	set := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		set[m] = struct{}{}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	n := 0
	for m := range a {
		if _, ok := b[m]; ok {
			n++
		}
	}
	return n
}

// JaccardSimilarity compares the sets of moves played in two games:
// |A∩B| / |A∪B|. Two empty games have similarity 0.
func JaccardSimilarity(moves1, moves2 []string) float64 {
	a, b := moveSet(moves1), moveSet(moves2)
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// OverlapSimilarity is |A∩B| / min(|A|, |B|).
func OverlapSimilarity(moves1, moves2 []string) float64 {
	a, b := moveSet(moves1), moveSet(moves2)
	smaller := min(len(a), len(b))
	if smaller == 0 {
		return 0
	}
	return float64(intersectionSize(a, b)) / float64(smaller)
}

// CompareGames scores two games with method ("" selects MethodOverlap).
func CompareGames(g1, g2 *Game, method string) (float64, error) {
	switch method {
	case "", MethodOverlap:
		return OverlapSimilarity(g1.Moves, g2.Moves), nil
	case MethodJaccard:
		return JaccardSimilarity(g1.Moves, g2.Moves), nil
	}
	return 0, fmt.Errorf("similarity method %q not available", method)
}
