package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/davidot/ActionsTest-sub000/internal/board"
)

func TestSVGStartPosition(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, board.NewStartBoard(), Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, `width="384" height="384"`) {
		t.Error("unexpected diagram size")
	}
	if !strings.Contains(out, "<title>"+board.StartFEN+"</title>") {
		t.Error("title does not carry the position")
	}
	if n := strings.Count(out, "<rect"); n != 64 {
		t.Errorf("%d squares, want 64", n)
	}
	if n := strings.Count(out, "<circle"); n != 32 {
		t.Errorf("%d piece discs, want 32", n)
	}
	if n := strings.Count(out, "<text"); n != 32 {
		t.Errorf("%d labels, want 32", n)
	}
}

func TestSVGMovesAndCoordinates(t *testing.T) {
	b := board.NewStartBoard()
	var buf bytes.Buffer
	opts := Options{Moves: board.GenerateMoves(b), Coordinates: true}
	if err := SVG(&buf, b, opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	// 20 moves reach 16 distinct squares.
	if n := strings.Count(out, "<circle"); n != 32+16 {
		t.Errorf("%d circles, want 48", n)
	}
	if n := strings.Count(out, "<text"); n != 32+16 {
		t.Errorf("%d labels, want 48", n)
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		flipped bool
		sq      board.Square
		x, y    int
	}{
		{"a1 white view", false, board.A1, 0, 70},
		{"h8 white view", false, board.H8, 70, 0},
		{"a1 black view", true, board.A1, 70, 0},
		{"e2 black view", true, board.E2, 30, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := layout{sq: 10, flipped: tc.flipped}.origin(tc.sq)
			if x != tc.x || y != tc.y {
				t.Errorf("origin = (%d, %d), want (%d, %d)", x, y, tc.x, tc.y)
			}
		})
	}
}

func near(t *testing.T, got color.Color, want color.RGBA) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	diff := func(a uint32, b uint8) int {
		d := int(a>>8) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	if diff(r, want.R) > 2 || diff(g, want.G) > 2 || diff(b, want.B) > 2 {
		t.Errorf("color %v, want about %v", got, want)
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Marked: []board.Square{board.E4}}
	if err := PNG(&buf, board.NewStartBoard(), opts); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 384 || b.Dy() != 384 {
		t.Fatalf("image is %v", b)
	}

	// Square centers: d4 is dark and empty, e4 is light and tinted.
	near(t, img.At(3*48+24, 4*48+24), color.RGBA{0xb5, 0x88, 0x63, 0xff})
	near(t, img.At(4*48+24, 4*48+24), color.RGBA{0xf7, 0xec, 0x74, 0xff})
	// a1 holds a white rook; the disc edge sits inside the square.
	near(t, img.At(0*48+24, 7*48+8), color.RGBA{0xfa, 0xfa, 0xfa, 0xff})
}

func TestImageRescale(t *testing.T) {
	img, err := Image(board.NewStartBoard(), Options{SquareSize: 20, Width: 100})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("rescaled image is %v", b)
	}
}
