/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package openings

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed data/names.tsv
var embeddedNames []byte

//go:embed data/ranges.tsv
var embeddedRanges []byte

//go:embed data/eco.tsv
var embeddedMainLines []byte

// EmbeddedTables parses the reference tables compiled into the binary.
func EmbeddedTables() (Tables, error) {
	var tables Tables
	var err error

	tables.Names, err = ReadNameTable(bytes.NewReader(embeddedNames))
	if err != nil {
		return tables, fmt.Errorf("embedded name table: %w", err)
	}
	tables.Ranges, err = ReadRangeTable(bytes.NewReader(embeddedRanges))
	if err != nil {
		return tables, fmt.Errorf("embedded range table: %w", err)
	}
	tables.MainLines, err = ReadMainLineTable(bytes.NewReader(embeddedMainLines))
	if err != nil {
		return tables, fmt.Errorf("embedded main line table: %w", err)
	}

	return tables, nil
}

// LoadTables reads the three reference tables from disk. An empty path
// selects the embedded copy of that table.
func LoadTables(namesPath, rangesPath, mainLinesPath string) (Tables, error) {
	tables, err := EmbeddedTables()
	if err != nil {
		return tables, err
	}

	if namesPath != "" {
		err = readFile(namesPath, func(r io.Reader) error {
			tables.Names, err = ReadNameTable(r)
			return err
		})
		if err != nil {
			return tables, err
		}
	}
	if rangesPath != "" {
		err = readFile(rangesPath, func(r io.Reader) error {
			tables.Ranges, err = ReadRangeTable(r)
			return err
		})
		if err != nil {
			return tables, err
		}
	}
	if mainLinesPath != "" {
		err = readFile(mainLinesPath, func(r io.Reader) error {
			tables.MainLines, err = ReadMainLineTable(r)
			return err
		})
		if err != nil {
			return tables, err
		}
	}

	return tables, nil
}

func readFile(path string, parse func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %v: %w", path, err)
	}
	defer f.Close()

	if err := parse(f); err != nil {
		return fmt.Errorf("reading %v: %w", path, err)
	}
	return nil
}

// ReadNameTable reads "code<TAB>name" rows.
func ReadNameTable(r io.Reader) ([]NameEntry, error) {
	var ret []NameEntry
	err := eachRow(r, 2, func(lineNum int, fields []string) error {
		ret = append(ret, NameEntry{
			Code: strings.TrimSpace(fields[0]),
			Name: fields[1],
		})
		return nil
	})

	return ret, err
}

// ReadRangeTable reads "letter<TAB>low<TAB>high<TAB>name" rows. Names are
// kept verbatim; Resolve trims trailing whitespace when it returns one.
func ReadRangeTable(r io.Reader) ([]RangeEntry, error) {
	var ret []RangeEntry
	err := eachRow(r, 4, func(lineNum int, fields []string) error {
		letter := strings.TrimSpace(fields[0])
		if len(letter) != 1 {
			return fmt.Errorf("line %v: bad range letter %q", lineNum, letter)
		}
		low, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return fmt.Errorf("line %v: bad range low bound: %w", lineNum, err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("line %v: bad range high bound: %w", lineNum, err)
		}
		if low > high {
			return fmt.Errorf("line %v: empty range %v%02d-%v%02d", lineNum,
				letter, low, letter, high)
		}
		ret = append(ret, RangeEntry{
			Letter: letter[0],
			Low:    low,
			High:   high,
			Name:   fields[3],
		})
		return nil
	})

	return ret, err
}

// ReadMainLineTable reads "code<TAB>name<TAB>moves" rows. Row order is
// preserved since lookups take the first row for a code.
func ReadMainLineTable(r io.Reader) ([]MainLine, error) {
	var ret []MainLine
	err := eachRow(r, 3, func(lineNum int, fields []string) error {
		ret = append(ret, MainLine{
			Code:  strings.TrimSpace(fields[0]),
			Name:  strings.TrimSpace(fields[1]),
			Moves: strings.TrimSpace(fields[2]),
		})
		return nil
	})

	return ret, err
}

// eachRow calls fn for every non-blank, non-comment line split into exactly
// numFields tab separated fields.
func eachRow(r io.Reader, numFields int,
	fn func(lineNum int, fields []string) error) error {

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", numFields)
		if len(fields) != numFields {
			return fmt.Errorf("line %v: expected %v fields, got %v", lineNum,
				numFields, len(fields))
		}
		if err := fn(lineNum, fields); err != nil {
			return err
		}
	}

	return scanner.Err()
}
