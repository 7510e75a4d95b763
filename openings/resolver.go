/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package openings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

const (
	// NoOpening is the code recorded for games without an ECO header.
	NoOpening = "NaO"

	// ApproximateMarker is appended to names that came from the main-line
	// fallback table rather than a verified lookup.
	ApproximateMarker = "*"
)

var (
	ErrUnknownCode   = errors.New("openings: code not found in any reference table")
	ErrMalformedCode = errors.New("openings: malformed classification code")
)

// NameEntry maps one classification code directly to an opening name.
type NameEntry struct {
	Code string
	Name string
}

// RangeEntry covers the inclusive band Letter+Low..Letter+High.
type RangeEntry struct {
	Letter byte
	Low    int
	High   int
	Name   string
}

func (r RangeEntry) contains(letter byte, n int) bool {
	return r.Letter == letter && n >= r.Low && n <= r.High
}

// MainLine is one row of the full ECO reference. Several rows may share a
// code; only the first is ever consulted.
type MainLine struct {
	Code  string
	Name  string
	Moves string
}

type Tables struct {
	Names     []NameEntry
	Ranges    []RangeEntry
	MainLines []MainLine
}

// Resolver maps ECO codes to opening names. It is never mutated after
// NewResolver returns and may be shared between goroutines.
type Resolver struct {
	names     map[string]string
	ranges    []RangeEntry
	mainLines map[string]MainLine
}

func NewResolver(tables Tables) *Resolver {
	r := &Resolver{
		names:     make(map[string]string, len(tables.Names)),
		ranges:    append([]RangeEntry(nil), tables.Ranges...),
		mainLines: make(map[string]MainLine, len(tables.MainLines)),
	}
	for _, n := range tables.Names {
		if _, ok := r.names[n.Code]; !ok {
			r.names[n.Code] = n.Name
		}
	}
	for _, ml := range tables.MainLines {
		if _, ok := r.mainLines[ml.Code]; !ok {
			r.mainLines[ml.Code] = ml
		}
	}

	return r
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
	defaultErr      error
)

// DefaultResolver returns the process-wide resolver built from the
// embedded reference tables. The tables are parsed on first use only.
func DefaultResolver() (*Resolver, error) {
	defaultOnce.Do(func() {
		var tables Tables
		tables, defaultErr = EmbeddedTables()
		if defaultErr == nil {
			defaultResolver = NewResolver(tables)
		}
	})

	return defaultResolver, defaultErr
}

// Resolve returns the opening name for code. Lookup order is the direct
// name table, then the range table, then the first main-line row for the
// code (marked with ApproximateMarker).
func (r *Resolver) Resolve(code string) (string, error) {
	if code == NoOpening {
		return code, nil
	}

	if name, ok := r.names[code]; ok {
		return name, nil
	}

	letter, n, err := splitCode(code)
	if err != nil {
		return "", err
	}
	for _, rng := range r.ranges {
		if rng.contains(letter, n) {
			return strings.TrimRightFunc(rng.Name, unicode.IsSpace), nil
		}
	}

	// e.g. the Philidor Defense (C41) has no band of its own
	ml, ok := r.mainLines[code]
	if !ok {
		return "", fmt.Errorf("resolving %q: %w", code, ErrUnknownCode)
	}

	return ml.Name + ApproximateMarker, nil
}

// MainLine returns the first main-line row recorded for code. This is not
// necessarily the true main line when several rows share the code.
func (r *Resolver) MainLine(code string) (MainLine, bool) {
	ml, ok := r.mainLines[code]
	return ml, ok
}

func splitCode(code string) (byte, int, error) {
	if len(code) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCode, code)
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrMalformedCode, code, err)
	}

	return code[0], n, nil
}
