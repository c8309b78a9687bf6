package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidot/ActionsTest-sub000/internal/board"
	"github.com/davidot/ActionsTest-sub000/internal/book"
)

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-seed", "9", "-cache-dir", "/tmp/x"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.seed != 9 || !cfg.perftCache || cfg.cacheDir != "/tmp/x" {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestRunWithBookAndCache(t *testing.T) {
	dir := t.TempDir()
	pos := board.NewStartBoard()
	bk := book.New()
	bk.Add(pos.PolyglotHash(), book.Entry{From: board.C2, To: board.C4, Promotion: board.NoPieceType, Weight: 1})
	bookPath := filepath.Join(dir, "book.bin")
	f, err := os.Create(bookPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := bk.WritePolyglot(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config{bookFile: bookPath, perftCache: true, cacheDir: filepath.Join(dir, "cache")}
	in := strings.NewReader("position startpos\ngo\nperft 2\nquit\n")
	var out bytes.Buffer
	if err := run(cfg, in, &out); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.Contains(got, "bestmove c2c4\n") {
		t.Errorf("book move not played:\n%s", got)
	}
	if !strings.Contains(got, "Nodes searched: 400\n") {
		t.Errorf("perft missing:\n%s", got)
	}
}

func TestRunMissingBook(t *testing.T) {
	cfg := config{bookFile: filepath.Join(t.TempDir(), "missing.bin"), seed: 3}
	var out bytes.Buffer
	if err := run(cfg, strings.NewReader("go\n"), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "bestmove ") || out.String() == "bestmove 0000\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunSeedOption(t *testing.T) {
	replies := make(map[string]bool)
	for seed := 1; seed <= 6; seed++ {
		in := strings.NewReader(fmt.Sprintf("setoption name Seed value %d\nucinewgame\nposition startpos\ngo\nquit\n", seed))
		var out bytes.Buffer
		if err := run(config{}, in, &out); err != nil {
			t.Fatal(err)
		}
		replies[out.String()] = true
	}
	if len(replies) < 2 {
		t.Errorf("Seed option ignored, every seed replied %v", replies)
	}
}

func TestRunBookOptionOverridesFlag(t *testing.T) {
	dir := t.TempDir()
	pos := board.NewStartBoard()
	bk := book.New()
	bk.Add(pos.PolyglotHash(), book.Entry{From: board.G1, To: board.F3, Promotion: board.NoPieceType, Weight: 1})
	bookPath := filepath.Join(dir, "book.bin")
	f, err := os.Create(bookPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := bk.WritePolyglot(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	in := strings.NewReader("setoption name BookFile value " + bookPath + "\nposition startpos\ngo\nquit\n")
	var out bytes.Buffer
	if err := run(config{seed: 5}, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "bestmove g1f3\n") {
		t.Errorf("BookFile option ignored:\n%s", out.String())
	}
}
