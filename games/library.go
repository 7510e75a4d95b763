/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/mikeb26/chessanalytics/openings"
	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const DefaultLimit = 2000

// Library is a player's game history, one Game per transcript file.
type Library struct {
	Username string
	Games    []*Game
}

func NewLibrary(username string, games []*Game) *Library {
	return &Library{Username: username, Games: games}
}

// LoadLibrary reads up to limit games found under dir. The directory's base
// name is taken as the player's username. Files are parsed concurrently but
// the library keeps them in sorted path order.
func LoadLibrary(ctx context.Context, dir string, limit int,
	resolver *openings.Resolver) (*Library, error) {

	if limit <= 0 {
		limit = DefaultLimit
	}

	files, err := gameFiles(dir)
	if err != nil {
		return nil, err
	}
	log.Printf("games.load: loading library (%v files)...", len(files))
	if len(files) > limit {
		files = files[:limit]
	}

	games := make([]*Game, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			g, err := ReadGame(file, resolver)
			if err != nil {
				return err
			}
			games[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("unable to load library %v: %w", dir, err)
	}

	return NewLibrary(filepath.Base(filepath.Clean(dir)), games), nil
}

func gameFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".pgn":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list games in %v: %w", dir, err)
	}
	sort.Strings(files)

	return files, nil
}

func (lib *Library) Len() int {
	return len(lib.Games)
}

func (lib *Library) isUser(name string) bool {
	return strings.EqualFold(name, lib.Username)
}

// GamesAs returns the games the user played with color. chess.NoColor
// returns every game in the library.
func (lib *Library) GamesAs(color chess.Color) []*Game {
	if color == chess.NoColor {
		return lib.Games
	}

	var ret []*Game
	for _, g := range lib.Games {
		if (color == chess.White && lib.isUser(g.White)) ||
			(color == chess.Black && lib.isUser(g.Black)) {
			ret = append(ret, g)
		}
	}
	return ret
}

func winRate(games []*Game, win Result) float64 {
	if len(games) == 0 {
		return 0
	}
	wins := 0
	for _, g := range games {
		if g.Result == win {
			wins++
		}
	}
	return float64(wins) / float64(len(games))
}

// WinRates returns the share of games the user won with each color. A
// color the user never played reports 0.
func (lib *Library) WinRates() (white float64, black float64) {
	return winRate(lib.GamesAs(chess.White), ResultWhite),
		winRate(lib.GamesAs(chess.Black), ResultBlack)
}

// ExtractOpenings returns the chess.com opening slug of every game the user
// played with color, "" for games without one.
func (lib *Library) ExtractOpenings(color chess.Color) []string {
	games := lib.GamesAs(color)
	ret := make([]string, len(games))
	for i, g := range games {
		ret[i] = g.ECOUrlOpening()
	}
	return ret
}

// OpeningFrequencies groups the user's openings with color into main lines,
// most frequent first.
func (lib *Library) OpeningFrequencies(color chess.Color) []openings.OpeningCount {
	return openings.Aggregate(lib.ExtractOpenings(color))
}

// OpeningResult is the user's score in one main line.
type OpeningResult struct {
	Opening string
	Wins    int
	Losses  int
	Draws   int
}

func (or OpeningResult) Games() int {
	return or.Wins + or.Losses + or.Draws
}

// ResultsByOpening returns wins, losses and draws, from the user's side, for
// each main line of OpeningFrequencies(color) in the same order. A game
// counts toward every main line its opening slug contains.
func (lib *Library) ResultsByOpening(color chess.Color) ([]OpeningResult, error) {
	if color != chess.White && color != chess.Black {
		return nil, fmt.Errorf("results by opening need a color, got %v", color)
	}

	games := lib.GamesAs(color)
	slugs := lib.ExtractOpenings(color)
	win, loss := ResultWhite, ResultBlack
	if color == chess.Black {
		win, loss = ResultBlack, ResultWhite
	}

	var ret []OpeningResult
	for _, oc := range lib.OpeningFrequencies(color) {
		res := OpeningResult{Opening: oc.Opening}
		for i, g := range games {
			if !strings.Contains(slugs[i], oc.Opening) {
				continue
			}
			switch g.Result {
			case win:
				res.Wins++
			case loss:
				res.Losses++
			default:
				res.Draws++
			}
		}
		ret = append(ret, res)
	}

	return ret, nil
}

type RatingStats struct {
	Games  int
	Mean   float64
	StdDev float64
}

// OpponentRatingStats summarizes the Elo of the user's opponents in games
// played with color (NoColor for all). Games without a numeric opponent
// rating are skipped.
func (lib *Library) OpponentRatingStats(color chess.Color) RatingStats {
	var ratings []float64
	for _, g := range lib.GamesAs(color) {
		opp := g.WhiteElo
		if lib.isUser(g.White) {
			opp = g.BlackElo
		}
		r, err := strconv.Atoi(opp)
		if err != nil {
			continue
		}
		ratings = append(ratings, float64(r))
	}

	switch len(ratings) {
	case 0:
		return RatingStats{}
	case 1:
		return RatingStats{Games: 1, Mean: ratings[0]}
	}
	mean, std := stat.MeanStdDev(ratings, nil)
	return RatingStats{Games: len(ratings), Mean: mean, StdDev: std}
}

// WriteCSV writes the library table, one Describe row per game.
func (lib *Library) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DescribeHeader); err != nil {
		return err
	}
	for _, g := range lib.Games {
		if err := cw.Write(g.Describe()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
