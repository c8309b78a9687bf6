package main

import (
	"flag"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/davidot/ActionsTest-sub000/internal/book"
	"github.com/davidot/ActionsTest-sub000/internal/storage"
	"github.com/davidot/ActionsTest-sub000/internal/uci"
)

type config struct {
	seed       int64
	bookFile   string
	perftCache bool
	cacheDir   string
	cpuprofile string
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("chesscore-uci", flag.ContinueOnError)
	fs.Int64Var(&cfg.seed, "seed", 0, "seed for random move choice")
	fs.StringVar(&cfg.bookFile, "book", "", "Polyglot opening book to play from")
	fs.BoolVar(&cfg.perftCache, "perft-cache", false, "keep perft results in the data directory")
	fs.StringVar(&cfg.cacheDir, "cache-dir", "", "perft cache directory (implies -perft-cache)")
	fs.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.cacheDir != "" {
		cfg.perftCache = true
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := cfg.cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Printf("uci: %v", err)
	}
}

// run seeds the protocol handler from the flags and serves it until quit
// or end of input. The Seed and BookFile options override the flags.
func run(cfg config, in io.Reader, out io.Writer) error {
	protocol := uci.New(in, out)
	defer protocol.Close()

	protocol.SetSeed(cfg.seed)
	if cfg.bookFile != "" {
		bk, err := book.LoadPolyglot(cfg.bookFile)
		if err != nil {
			log.Printf("Warning: book not loaded: %v (playing random moves)", err)
		} else {
			log.Printf("Book loaded from %s: %d positions", cfg.bookFile, bk.Size())
			protocol.SetBook(bk)
		}
	}

	if cfg.perftCache {
		cache, err := storage.Open(cfg.cacheDir)
		if err != nil {
			log.Printf("Warning: perft cache disabled: %v", err)
		} else {
			defer cache.Close()
			protocol.SetPerftCache(cache)
		}
	}

	return protocol.Run()
}
