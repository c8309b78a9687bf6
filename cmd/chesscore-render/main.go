package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidot/ActionsTest-sub000/internal/board"
	"github.com/davidot/ActionsTest-sub000/internal/render"
)

type config struct {
	fen         string
	moves       string
	output      string
	squareSize  int
	width       int
	flipped     bool
	coordinates bool
	showMoves   bool
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("chesscore-render", flag.ContinueOnError)
	fs.StringVar(&cfg.fen, "fen", board.StartFEN, "position to draw")
	fs.StringVar(&cfg.moves, "moves", "", "moves to play first, long format or SAN, space separated")
	fs.StringVar(&cfg.output, "o", "-", "output file; .png writes PNG, anything else SVG, - is stdout")
	fs.IntVar(&cfg.squareSize, "square", render.DefaultSquareSize, "square size in pixels")
	fs.IntVar(&cfg.width, "width", 0, "rescale PNG output to this width")
	fs.BoolVar(&cfg.flipped, "flip", false, "draw from Black's side")
	fs.BoolVar(&cfg.coordinates, "coords", true, "label files and ranks")
	fs.BoolVar(&cfg.showMoves, "show-moves", false, "mark the destinations of legal moves")
	err := fs.Parse(args)
	return cfg, err
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// playMoves applies each move in text, read as long format first and SAN
// second.
func playMoves(b *board.Board, text string) error {
	for _, mv := range strings.Fields(text) {
		legal := board.GenerateMoves(b)
		m, err := board.ParseLongMove(mv, legal)
		if err != nil {
			m, err = board.DecodeSAN(mv, legal)
		}
		if err != nil {
			return fmt.Errorf("move %q: %w", mv, err)
		}
		b.MakeMove(m)
	}
	return nil
}

func run(cfg config, stdout io.Writer) error {
	b, err := board.ParseFEN(cfg.fen)
	if err != nil {
		return err
	}
	if err := playMoves(b, cfg.moves); err != nil {
		return err
	}

	opts := render.Options{
		SquareSize:  cfg.squareSize,
		Flipped:     cfg.flipped,
		Coordinates: cfg.coordinates,
		Width:       cfg.width,
	}
	if m, ok := b.LastMove(); ok && m != board.NoMove {
		opts.Marked = []board.Square{m.From(), m.To()}
	}
	if cfg.showMoves {
		opts.Moves = board.GenerateMoves(b)
	}

	write := render.SVG
	if strings.EqualFold(filepath.Ext(cfg.output), ".png") {
		write = render.PNG
	}

	if cfg.output == "-" {
		return write(stdout, b, opts)
	}

	f, err := os.Create(cfg.output)
	if err != nil {
		return err
	}
	if err := write(f, b, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %s", cfg.output)
	return nil
}
