/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package tactics scans a player's games for positions where the side to
// move had a forced mate, for use as training puzzles.
package tactics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/mikeb26/chessanalytics/games"
	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// Evaluator reports the number of moves to mate for the side to move in
// the engine's principal variation, or 0 when it sees none.
type Evaluator interface {
	Mate(pos *chess.Position) (int, error)
}

// Stockfish is an Evaluator backed by a UCI engine process.
type Stockfish struct {
	mu     sync.Mutex
	engine *uci.Engine
	depth  int
}

func NewStockfish(path string, depth int) (*Stockfish, error) {
	engine, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("unable to start engine %v: %w", path, err)
	}
	err = engine.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame)
	if err != nil {
		engine.Close()
		return nil, fmt.Errorf("unable to initialize engine %v: %w", path, err)
	}

	return &Stockfish{engine: engine, depth: depth}, nil
}

func (sf *Stockfish) Mate(pos *chess.Position) (int, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	err := sf.engine.Run(uci.CmdPosition{Position: pos},
		uci.CmdGo{Depth: sf.depth})
	if err != nil {
		return 0, fmt.Errorf("engine search failed for %v: %w", pos, err)
	}

	return sf.engine.SearchResults().Info.Score.Mate, nil
}

func (sf *Stockfish) Close() error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.engine.Close()
}

// Tactic is a puzzle position in FEN along with where it came from.
type Tactic struct {
	Position    string `json:"position"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// FindForcedMate returns the first position in the game, before any move is
// played onward, where the side to move has mate in exactly mateIn. It
// returns nil when the game has no such position.
func FindForcedMate(g *games.Game, eval Evaluator, mateIn int,
	extra string) (*Tactic, error) {

	for ply := 0; ply < len(g.Moves); ply++ {
		pos, err := g.PositionAfter(ply)
		if err != nil {
			return nil, err
		}
		mate, err := eval.Mate(pos)
		if err != nil {
			return nil, err
		}
		if mate != mateIn {
			continue
		}

		desc := fmt.Sprintf("%v vs. %v (%v)", g.White, g.Black,
			g.Result.String())
		if extra != "" {
			desc += " " + extra
		}
		return &Tactic{
			Position:    pos.String(),
			Description: desc,
			Link:        g.Link,
		}, nil
	}

	return nil, nil
}

// FindForcedMates collects at most one tactic per game in library order,
// stopping once limit tactics are found. A limit <= 0 scans every game.
func FindForcedMates(ctx context.Context, lib *games.Library, eval Evaluator,
	mateIn int, limit int) ([]Tactic, error) {

	if mateIn <= 0 {
		return nil, fmt.Errorf("mate depth must be positive, got %v", mateIn)
	}

	var ret []Tactic
	for idx, g := range lib.Games {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		if limit > 0 && len(ret) >= limit {
			break
		}

		t, err := FindForcedMate(g, eval, mateIn, "["+g.Opening+"]")
		if err != nil {
			return ret, fmt.Errorf("unable to scan %v: %w", g.File, err)
		}
		if t == nil {
			continue
		}
		log.Printf("tactics.find: game %v/%v: mate in %v: %v", idx+1,
			lib.Len(), mateIn, t.Position)
		ret = append(ret, *t)
	}

	return ret, nil
}

// WriteJSON writes the tactics as an indented JSON array.
func WriteJSON(w io.Writer, tactics []Tactic) error {
	if tactics == nil {
		tactics = []Tactic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tactics)
}

// ImageName derives a file name (without extension) for the tactic's board
// image, e.g. "alice_vs._bob_w_to_move".
func ImageName(t Tactic) string {
	words := strings.Fields(t.Description)
	if len(words) > 3 {
		words = words[:3]
	}

	toMove := "w"
	fields := strings.Fields(t.Position)
	if len(fields) > 1 && fields[1] == "b" {
		toMove = "b"
	}

	return strings.Join(append(words, toMove, "to", "move"), "_")
}
