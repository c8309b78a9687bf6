// Package render draws board diagrams as SVG or PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/davidot/ActionsTest-sub000/internal/board"
)

// DefaultSquareSize is the square edge in pixels when Options leaves it unset.
const DefaultSquareSize = 48

// Board colors
const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	markedLight = "#f7ec74"
	markedDark  = "#dac34b"
	moveMarker  = "#3b6e3b"
	whitePiece  = "#fafafa"
	blackPiece  = "#262626"
	outline     = "#202020"
)

// Options control what a diagram shows.
type Options struct {
	// SquareSize is the edge of one square in pixels.
	SquareSize int
	// Flipped puts Black at the bottom.
	Flipped bool
	// Marked squares are tinted, e.g. the last move.
	Marked []board.Square
	// Moves, if set, get a dot on each destination square.
	Moves *board.MoveList
	// Coordinates adds file letters and rank numbers.
	Coordinates bool
	// Width rescales the PNG output to this many pixels wide. Zero keeps
	// the natural size. SVG output is not affected.
	Width int
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return DefaultSquareSize
	}
	return o.SquareSize
}

// layout maps board squares to pixel positions.
type layout struct {
	sq      int
	flipped bool
}

// origin returns the top-left pixel of a square.
func (l layout) origin(s board.Square) (x, y int) {
	file, rank := s.File(), s.Rank()
	if l.flipped {
		file = 7 - file
	} else {
		rank = 7 - rank
	}
	return file * l.sq, rank * l.sq
}

func (l layout) size() int {
	return 8 * l.sq
}

// label is a piece letter or coordinate to be written on the diagram.
type label struct {
	x, y  int // baseline center
	text  string
	color string
	size  int
}

// labels lists the text drawn on a diagram so SVG and PNG output place it
// the same way.
func labels(b *board.Board, l layout, coordinates bool) []label {
	var out []label
	for s := board.Square(0); s < board.NumSquares; s++ {
		p := b.PieceAt(s)
		if p == board.NoPiece {
			continue
		}
		x, y := l.origin(s)
		col := blackPiece
		if p.Color() == board.Black {
			col = whitePiece
		}
		out = append(out, label{
			x:     x + l.sq/2,
			y:     y + l.sq/2 + l.sq/8,
			text:  string(p.Type().Letter()),
			color: col,
			size:  l.sq * 2 / 5,
		})
	}

	if coordinates {
		for i := 0; i < 8; i++ {
			file := board.NewSquare(i, 0)
			rank := board.NewSquare(0, i)
			fx, _ := l.origin(file)
			_, ry := l.origin(rank)
			out = append(out,
				label{x: fx + l.sq - l.sq/8, y: l.size() - 3, text: string(rune('a' + i)), color: outline, size: l.sq / 5},
				label{x: l.sq / 8, y: ry + l.sq/4, text: fmt.Sprint(i + 1), color: outline, size: l.sq / 5},
			)
		}
	}
	return out
}

func marked(opts Options) map[board.Square]bool {
	m := make(map[board.Square]bool, len(opts.Marked))
	for _, s := range opts.Marked {
		m[s] = true
	}
	return m
}

func squareColor(s board.Square, tinted bool) string {
	light := (s.File()+s.Rank())%2 == 1
	switch {
	case light && tinted:
		return markedLight
	case light:
		return lightSquare
	case tinted:
		return markedDark
	default:
		return darkSquare
	}
}

// drawShapes writes squares, move markers and piece discs. Text is left to
// the caller since the rasteriser does not draw it.
func drawShapes(canvas *svg.SVG, b *board.Board, l layout, opts Options) {
	tint := marked(opts)
	for s := board.Square(0); s < board.NumSquares; s++ {
		x, y := l.origin(s)
		canvas.Rect(x, y, l.sq, l.sq, "fill:"+squareColor(s, tint[s]))
	}

	if opts.Moves != nil {
		seen := make(map[board.Square]bool)
		opts.Moves.ForEach(func(m board.Move) {
			if seen[m.To()] {
				return
			}
			seen[m.To()] = true
			x, y := l.origin(m.To())
			canvas.Circle(x+l.sq/2, y+l.sq/2, l.sq/8, "fill:"+moveMarker+";fill-opacity:0.6")
		})
	}

	for s := board.Square(0); s < board.NumSquares; s++ {
		p := b.PieceAt(s)
		if p == board.NoPiece {
			continue
		}
		x, y := l.origin(s)
		fill := whitePiece
		if p.Color() == board.Black {
			fill = blackPiece
		}
		canvas.Circle(x+l.sq/2, y+l.sq/2, l.sq*2/5,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, outline, max(1, l.sq/24)))
	}
}

// SVG writes a diagram of b.
func SVG(w io.Writer, b *board.Board, opts Options) error {
	l := layout{sq: opts.squareSize(), flipped: opts.Flipped}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(l.size(), l.size())
	canvas.Title(b.FEN())
	drawShapes(canvas, b, l, opts)
	for _, lb := range labels(b, l, opts.Coordinates) {
		canvas.Text(lb.x, lb.y, lb.text,
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx;fill:%s", lb.size, lb.color))
	}
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// Image renders b to an RGBA image.
func Image(b *board.Board, opts Options) (*image.RGBA, error) {
	l := layout{sq: opts.squareSize(), flipped: opts.Flipped}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(l.size(), l.size())
	drawShapes(canvas, b, l, opts)
	canvas.End()

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}
	size := l.size()
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	for _, lb := range labels(b, l, opts.Coordinates) {
		drawLabel(rgba, lb)
	}

	if opts.Width > 0 && opts.Width != size {
		return rescale(rgba, opts.Width), nil
	}
	return rgba, nil
}

// PNG writes a diagram of b as a PNG image.
func PNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := Image(b, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawLabel writes text centered on the label position. The bitmap face
// has a fixed size, so the label size is ignored.
func drawLabel(dst *image.RGBA, lb label) {
	c, err := oksvg.ParseSVGColor(lb.color)
	if err != nil || c == nil {
		c = color.Black
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(lb.text).Round()
	d.Dot = fixed.P(lb.x-width/2, lb.y)
	d.DrawString(lb.text)
}

func rescale(src *image.RGBA, width int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, width))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
