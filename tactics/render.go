/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tactics

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/notnil/chess"
	chessimage "github.com/notnil/chess/image"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	DefaultImageSize = 360

	squareSize  = 45
	LightSquare = "#f0d9b5"
	DarkSquare  = "#b58863"
)

func boardFromFEN(fen string) (*chess.Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position().Board(), nil
}

// RenderSVG draws the board described by fen as SVG.
func RenderSVG(w io.Writer, fen string) error {
	board, err := boardFromFEN(fen)
	if err != nil {
		return err
	}
	return chessimage.SVG(w, board)
}

// RenderPNG draws the board described by fen as a size x size PNG, white at
// the bottom.
func RenderPNG(w io.Writer, fen string, size int) error {
	if size <= 0 {
		size = DefaultImageSize
	}
	board, err := boardFromFEN(fen)
	if err != nil {
		return err
	}

	// notnil's SVG nests <svg> elements per piece, which oksvg can't read,
	// so the raster copy is drawn from a flat SVG of our own
	icon, err := oksvg.ReadIconStream(strings.NewReader(rasterSVG(board)),
		oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("unable to read board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	return png.Encode(w, img)
}

// piece outlines on a 45x45 square
var pieceShapes = map[chess.PieceType][]string{
	chess.Pawn: {
		`<circle cx="22.5" cy="15" r="6"/>`,
		`<path d="M 14 38 L 31 38 L 26 20 L 19 20 Z"/>`,
	},
	chess.Rook: {
		`<path d="M 11 38 L 34 38 L 34 35 L 31 35 L 30 17 L 33 14 L 33 9 L 29 9 L 29 11 L 25 11 L 25 9 L 20 9 L 20 11 L 16 11 L 16 9 L 12 9 L 12 14 L 15 17 L 14 35 L 11 35 Z"/>`,
	},
	chess.Knight: {
		`<path d="M 12 38 L 33 38 L 31 30 C 33 22 31 13 22 9 L 19 6 L 17 10 C 13 12 9 18 8 24 L 11 27 L 16 22 C 18 25 15 28 13 31 Z"/>`,
	},
	chess.Bishop: {
		`<path d="M 10 38 L 35 38 L 33 33 L 12 33 Z"/>`,
		`<path d="M 15 31 C 12 24 15 16 22.5 11 C 30 16 33 24 30 31 Z"/>`,
		`<circle cx="22.5" cy="8.5" r="2.5"/>`,
	},
	chess.Queen: {
		`<path d="M 11 38 L 34 38 L 35 31 L 10 31 Z"/>`,
		`<path d="M 10 30 L 8 14 L 15 24 L 17 11 L 22.5 23 L 28 11 L 30 24 L 37 14 L 35 30 Z"/>`,
		`<circle cx="8" cy="12" r="2"/>`,
		`<circle cx="17" cy="9" r="2"/>`,
		`<circle cx="28" cy="9" r="2"/>`,
		`<circle cx="37" cy="12" r="2"/>`,
	},
	chess.King: {
		`<path d="M 11 38 L 34 38 L 35 31 L 10 31 Z"/>`,
		`<path d="M 11 30 C 5 22 12 14 22.5 19 C 33 14 40 22 34 30 Z"/>`,
		`<path d="M 21 4 L 24 4 L 24 7 L 27 7 L 27 10 L 24 10 L 24 16 L 21 16 L 21 10 L 18 10 L 18 7 L 21 7 Z"/>`,
	},
}

func rasterSVG(board *chess.Board) string {
	const boardSize = 8 * squareSize
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%v" height="%v" viewBox="0 0 %v %v">`,
		boardSize, boardSize, boardSize, boardSize)
	sb.WriteString("\n")

	squares := board.SquareMap()
	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		x := int(sq.File()) * squareSize
		y := (7 - int(sq.Rank())) * squareSize

		fill := LightSquare
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			fill = DarkSquare
		}
		fmt.Fprintf(&sb, `<rect x="%v" y="%v" width="%v" height="%v" fill="%v"/>`,
			x, y, squareSize, squareSize, fill)
		sb.WriteString("\n")

		p, ok := squares[sq]
		if !ok || p == chess.NoPiece {
			continue
		}
		fill, stroke := "#ffffff", "#000000"
		if p.Color() == chess.Black {
			fill, stroke = "#202020", "#000000"
		}
		paint := fmt.Sprintf(` fill="%v" stroke="%v" stroke-width="1.5"/>`, fill,
			stroke)
		fmt.Fprintf(&sb, `<g transform="translate(%v,%v)">`, x, y)
		for _, shape := range pieceShapes[p.Type()] {
			sb.WriteString(strings.TrimSuffix(shape, "/>") + paint)
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	return sb.String()
}
