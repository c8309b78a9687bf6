package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidot/ActionsTest-sub000/internal/board"
)

func TestPlayMovesMixedNotation(t *testing.T) {
	b := board.NewStartBoard()
	if err := playMoves(b, "e2e4 e5 Nf3 b8c6"); err != nil {
		t.Fatal(err)
	}
	want := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	if got := b.FEN(); got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}

	if err := playMoves(b, "Ke3"); err == nil {
		t.Error("illegal move accepted")
	}
}

func TestRunSVGToStdout(t *testing.T) {
	cfg, err := parseFlags([]string{"-moves", "e4", "-show-moves"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(cfg, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<svg") {
		t.Errorf("no SVG written: %.80q", out.String())
	}
	if !strings.Contains(out.String(), "fill:#f7ec74") {
		t.Error("last move not marked")
	}
}

func TestRunPNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	cfg, err := parseFlags([]string{"-o", path, "-square", "16", "-width", "64", "-flip"})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(cfg, nil); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width %d, want 64", img.Bounds().Dx())
	}
}

func TestRunBadFEN(t *testing.T) {
	cfg, err := parseFlags([]string{"-fen", "8/8/8 w - - 0 1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(cfg, &bytes.Buffer{}); err == nil {
		t.Error("bad FEN accepted")
	}
}
