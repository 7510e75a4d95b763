/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package openings

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func testTables() Tables {
	return Tables{
		Names: []NameEntry{
			{Code: "B01", Name: "Scandinavian Defence"},
			{Code: "E11", Name: "Bogo-Indian Defence"},
			{Code: "E11", Name: "Shadowed Duplicate"},
		},
		Ranges: []RangeEntry{
			{Letter: 'B', Low: 10, High: 19, Name: "Caro-Kann Defence  "},
			{Letter: 'C', Low: 20, High: 29, Name: "Open Game\t"},
			{Letter: 'C', Low: 25, High: 29, Name: "Vienna Game"},
			{Letter: 'E', Low: 10, High: 19, Name: "Queen's Indian Defence"},
		},
		MainLines: []MainLine{
			{Code: "C41", Name: "Philidor's defence", Moves: "1.e4 e5 2.Nf3 d6"},
			{Code: "C41", Name: "Philidor, Lopez counter-gambit",
				Moves: "1.e4 e5 2.Nf3 d6 3.Bc4 f5"},
			{Code: "B09", Name: "Pirc, Austrian attack", Moves: "1.e4 d6 2.d4 Nf6 3.Nc3 g6 4.f4"},
		},
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(testTables())

	cases := []struct {
		name string
		code string
		want string
	}{
		{"no opening", NoOpening, NoOpening},
		{"direct", "B01", "Scandinavian Defence"},
		{"direct beats range", "E11", "Bogo-Indian Defence"},
		{"range low bound", "B10", "Caro-Kann Defence"},
		{"range high bound", "B19", "Caro-Kann Defence"},
		{"range trailing tab trimmed", "C22", "Open Game"},
		{"first range wins", "C27", "Open Game"},
		{"range other letter", "E15", "Queen's Indian Defence"},
		{"below range falls back", "B09", "Pirc, Austrian attack*"},
		{"main line first row", "C41", "Philidor's defence*"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := r.Resolve(c.code)
			if err != nil {
				t.Fatalf("Resolve(%q) returned error: %v", c.code, err)
			}
			if got != c.want {
				t.Errorf("Resolve(%q) = %q; want %q", c.code, got, c.want)
			}
		})
	}
}

func TestResolveMarkerAppendedOnce(t *testing.T) {
	r := NewResolver(testTables())

	got, err := r.Resolve("C41")
	if err != nil {
		t.Fatalf("Resolve(C41) returned error: %v", err)
	}
	if strings.Count(got, ApproximateMarker) != 1 ||
		!strings.HasSuffix(got, ApproximateMarker) {
		t.Errorf("expected exactly one trailing %q in %q", ApproximateMarker, got)
	}
}

func TestResolveAboveRange(t *testing.T) {
	r := NewResolver(testTables())

	_, err := r.Resolve("B20")
	if !errors.Is(err, ErrUnknownCode) {
		t.Errorf("Resolve(B20) err = %v; want ErrUnknownCode", err)
	}
}

func TestResolveMalformed(t *testing.T) {
	r := NewResolver(testTables())

	for _, code := range []string{"", "C", "Cxx", "C4a"} {
		_, err := r.Resolve(code)
		if !errors.Is(err, ErrMalformedCode) {
			t.Errorf("Resolve(%q) err = %v; want ErrMalformedCode", code, err)
		}
	}
}

func TestResolveCaseSensitive(t *testing.T) {
	r := NewResolver(testTables())

	// "b01" misses the direct table and the 'B' ranges
	_, err := r.Resolve("b01")
	if !errors.Is(err, ErrUnknownCode) {
		t.Errorf("Resolve(b01) err = %v; want ErrUnknownCode", err)
	}
}

func TestMainLine(t *testing.T) {
	r := NewResolver(testTables())

	ml, ok := r.MainLine("C41")
	if !ok {
		t.Fatal("expected a main line for C41")
	}
	if ml.Moves != "1.e4 e5 2.Nf3 d6" {
		t.Errorf("MainLine(C41).Moves = %q; want first row", ml.Moves)
	}
	if _, ok := r.MainLine("A00"); ok {
		t.Error("expected no main line for A00")
	}
}

func TestDefaultResolverCoversAllCodes(t *testing.T) {
	r, err := DefaultResolver()
	if err != nil {
		t.Fatalf("DefaultResolver() returned error: %v", err)
	}
	r2, _ := DefaultResolver()
	if r != r2 {
		t.Error("expected DefaultResolver to return a shared instance")
	}

	for _, letter := range "ABCDE" {
		for n := 0; n <= 99; n++ {
			code := fmt.Sprintf("%c%02d", letter, n)
			name, err := r.Resolve(code)
			if err != nil {
				t.Errorf("Resolve(%q) returned error: %v", code, err)
				continue
			}
			if name == "" {
				t.Errorf("Resolve(%q) returned empty name", code)
			}
		}
	}

	got, _ := r.Resolve("C41")
	if got != "Philidor's defence*" {
		t.Errorf("Resolve(C41) = %q; want Philidor fallback", got)
	}
	got, _ = r.Resolve("A52")
	if got != "Budapest Gambit" {
		t.Errorf("Resolve(A52) = %q; want Budapest Gambit", got)
	}
}
