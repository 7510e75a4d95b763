/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/chessanalytics/internal"
	"github.com/mikeb26/chessanalytics/openings"
	"github.com/notnil/chess"
)

// Result is a game result from white's point of view.
type Result float64

const (
	ResultBlack Result = 0
	ResultDraw  Result = 0.5
	ResultWhite Result = 1
)

func (r Result) String() string {
	return strconv.FormatFloat(float64(r), 'g', -1, 64)
}

var ErrNoResult = errors.New("games: game has no result")

// ParseResult converts a PGN Result tag ("1-0", "0-1", "1/2-1/2").
func ParseResult(s string) (Result, error) {
	switch strings.TrimSpace(s) {
	case "1-0":
		return ResultWhite, nil
	case "0-1":
		return ResultBlack, nil
	case "1/2-1/2":
		return ResultDraw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNoResult, s)
}

const NoTimeControl = "NT"

// Game is one parsed game transcript plus the header fields the library
// summarizes.
type Game struct {
	File        string
	White       string
	Black       string
	WhiteElo    string
	BlackElo    string
	Result      Result
	ECO         string
	Opening     string
	Date        string
	PlayedOn    time.Time
	TimeControl string
	Link        string
	ECOUrl      string
	Termination string

	// Moves in SAN with comments, variations, move numbers and the result
	// removed, e.g. ["e4", "e5", "Nf3", ...].
	Moves []string

	game *chess.Game
}

// ReadGame parses the first game in the PGN file at path.
func ReadGame(path string, resolver *openings.Resolver) (*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open game %v: %w", path, err)
	}
	defer f.Close()

	return ParseGame(f, path, resolver)
}

// ParseGame parses the first game in r. file is recorded for reference only.
// A nil resolver selects openings.DefaultResolver().
func ParseGame(r io.Reader, file string, resolver *openings.Resolver) (*Game, error) {
	var err error
	if resolver == nil {
		resolver, err = openings.DefaultResolver()
		if err != nil {
			return nil, err
		}
	}

	pgn, err := chess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse game %v: %w", file, err)
	}
	cg := chess.NewGame(pgn)

	g := &Game{
		File:        file,
		White:       tag(cg, "White"),
		Black:       tag(cg, "Black"),
		WhiteElo:    tag(cg, "WhiteElo"),
		BlackElo:    tag(cg, "BlackElo"),
		ECO:         tag(cg, "ECO"),
		Date:        tag(cg, "Date"),
		TimeControl: tag(cg, "TimeControl"),
		Link:        tag(cg, "Link"),
		ECOUrl:      tag(cg, "ECOUrl"),
		Termination: tag(cg, "Termination"),
		game:        cg,
	}
	if g.ECO == "" {
		g.ECO = openings.NoOpening
	}
	if g.TimeControl == "" {
		g.TimeControl = NoTimeControl
	}
	if g.Date == "" {
		g.Date = tag(cg, "EventDate")
	}

	g.Result, err = ParseResult(tag(cg, "Result"))
	if err != nil {
		return nil, fmt.Errorf("game %v: %w", file, err)
	}
	g.PlayedOn, err = internal.ParseDateOrZero(g.Date)
	if err != nil {
		return nil, fmt.Errorf("game %v: parsing date %q: %w", file, g.Date, err)
	}
	g.Opening, err = resolver.Resolve(g.ECO)
	if err != nil {
		return nil, fmt.Errorf("game %v: %w", file, err)
	}

	positions := cg.Positions()
	for i, mv := range cg.Moves() {
		g.Moves = append(g.Moves, chess.AlgebraicNotation{}.Encode(positions[i], mv))
	}

	return g, nil
}

func tag(cg *chess.Game, key string) string {
	tp := cg.GetTagPair(key)
	if tp == nil {
		return ""
	}
	return strings.TrimSpace(tp.Value)
}

// Tag returns the value of any PGN header, or "" when absent.
func (g *Game) Tag(key string) string {
	return tag(g.game, key)
}

// String returns the full PGN text including headers.
func (g *Game) String() string {
	return g.game.String()
}

// Equal reports whether two games have identical PGN, headers included.
func (g *Game) Equal(other *Game) bool {
	return g.String() == other.String()
}

// PositionAfter returns the position after n plies; 0 is the start position.
func (g *Game) PositionAfter(n int) (*chess.Position, error) {
	positions := g.game.Positions()
	if n < 0 || n >= len(positions) {
		return nil, fmt.Errorf("ply %v out of range for game %v (%v plies)", n,
			g.File, len(positions)-1)
	}
	return positions[n], nil
}

// ECOUrlOpening returns the opening slug chess.com records in the ECOUrl
// header, e.g. "Italian-Game-Giuoco-Piano-4.c3", or "" when absent.
func (g *Game) ECOUrlOpening() string {
	if g.ECOUrl == "" {
		return ""
	}
	return path.Base(strings.TrimRight(g.ECOUrl, "/"))
}

// Winner returns the name of the winning player or "" for a draw.
func (g *Game) Winner() string {
	switch g.Result {
	case ResultWhite:
		return g.White
	case ResultBlack:
		return g.Black
	}
	return ""
}

func (g *Game) plyCount() int {
	if ply, err := strconv.Atoi(g.Tag("PlyCount")); err == nil {
		return ply
	}
	return len(g.Moves)
}

// Summary describes the outcome of the game in a couple of lines.
func (g *Game) Summary() string {
	ply := g.plyCount()
	var sb strings.Builder

	if g.Result == ResultDraw {
		fmt.Fprintf(&sb, "Draw between %v and %v in %v moves (%v ply).\n",
			g.White, g.Black, ply/2, ply)
		fmt.Fprintf(&sb, "General Info: ECO = %v, date = %v.\n", g.ECO, g.Date)
		return sb.String()
	}

	color := "White"
	if g.Result == ResultBlack {
		color = "Black"
	}
	fmt.Fprintf(&sb, "%v (%v) won in %v moves (%v ply).\n", color, g.Winner(),
		ply/2, ply)
	fmt.Fprintf(&sb, "Date = %v, ECO = %v\n", g.Date, g.ECO)
	fmt.Fprintf(&sb, "Opening: %v\n", g.Opening)

	return sb.String()
}

// DescribeHeader names the columns of Describe.
var DescribeHeader = []string{"White", "Black", "Result", "WElo", "BElo", "ECO",
	"Opening", "Date", "Time", "id", "fname"}

// Describe returns the game as one row of the library table.
func (g *Game) Describe() []string {
	return []string{g.White, g.Black, g.Result.String(), g.WhiteElo,
		g.BlackElo, g.ECO, g.Opening, g.Date, g.TimeControl, g.Link, g.File}
}
