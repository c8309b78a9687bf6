package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/davidot/ActionsTest-sub000/internal/board"
	"github.com/davidot/ActionsTest-sub000/internal/book"
	"github.com/davidot/ActionsTest-sub000/internal/player"
	"github.com/davidot/ActionsTest-sub000/internal/storage"
)

// memoryCache is the PerftCache option value selecting an in-memory cache.
const memoryCache = "memory"

// UCI implements the Universal Chess Interface line protocol on top of a
// move-selection policy.
type UCI struct {
	in       io.Reader
	out      io.Writer
	position *board.Board

	// Move selection
	policy player.Policy
	fixed  bool // policy set by the caller, options do not replace it
	seed   int64
	book   *book.Book

	// Perft cache, closed by Close when opened through setoption
	cache      *storage.PerftCache
	ownedCache bool
}

// New creates a UCI handler reading commands from in and writing replies to
// out. Moves are chosen at random until options or SetPolicy say otherwise.
func New(in io.Reader, out io.Writer) *UCI {
	u := &UCI{
		in:       in,
		out:      out,
		position: board.NewStartBoard(),
	}
	u.rebuildPolicy()
	return u
}

// SetPolicy fixes the policy used by "go". Seed and BookFile no longer
// affect move choice afterwards.
func (u *UCI) SetPolicy(p player.Policy) {
	u.policy = p
	u.fixed = true
}

// SetSeed sets the seed of the option-driven policy, as "setoption name
// Seed" does.
func (u *UCI) SetSeed(seed int64) {
	u.seed = seed
	u.rebuildPolicy()
}

// SetBook sets the opening book of the option-driven policy. A nil book
// plays random moves only. "setoption name BookFile" replaces it.
func (u *UCI) SetBook(bk *book.Book) {
	u.book = bk
	u.rebuildPolicy()
}

// SetPerftCache makes "perft" use c. The caller keeps ownership of c.
func (u *UCI) SetPerftCache(c *storage.PerftCache) {
	u.closeCache()
	u.cache = c
	u.ownedCache = false
}

// Position returns the current position.
func (u *UCI) Position() *board.Board {
	return u.position
}

// Close releases resources opened through options.
func (u *UCI) Close() error {
	return u.closeCache()
}

// Run reads commands until "quit" or the end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo()
		case "stop":
			// Move choice is synchronous, nothing to stop.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.printf("%sFen: %s\n", u.position.String(), u.position.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.info("Unknown command: %s", cmd)
		}
	}

	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// info writes a diagnostic line the GUI shows but does not interpret.
func (u *UCI) info(format string, args ...any) {
	fmt.Fprintf(u.out, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	u.println("option name Seed type spin default 0 min 0 max 2147483647")
	u.println("option name BookFile type string default <empty>")
	u.println("option name PerftCache type string default <empty>")
	u.println("option name Debug type check default false")
	u.println("uciok")
}

// handleNewGame resets the position and reseeds the policy.
func (u *UCI) handleNewGame() {
	u.position = board.NewStartBoard()
	u.rebuildPolicy()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Board
	switch args[0] {
	case "startpos":
		pos = board.NewStartBoard()
	case "fen":
		fen := strings.Join(args[1:movesAt], " ")
		var err error
		pos, err = board.ParseFEN(fen)
		if err != nil {
			u.info("Invalid FEN: %v", err)
			return
		}
	default:
		u.info("Invalid position: %s", args[0])
		return
	}

	if movesAt < len(args) {
		for _, text := range args[movesAt+1:] {
			m, err := board.ParseLongMove(text, board.GenerateMoves(pos))
			if err != nil {
				u.info("Invalid move: %v", err)
				break
			}
			pos.MakeMove(m)
		}
	}

	u.position = pos
}

// handleGo asks the policy for a move and reports it. Search limits are
// accepted and ignored.
func (u *UCI) handleGo() {
	m, err := player.Choose(u.position, u.policy)
	if err != nil {
		if !errors.Is(err, player.ErrNoMoves) {
			u.info("%v", err)
		}
		u.println("bestmove 0000")
		return
	}
	u.printf("bestmove %s\n", m)
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "seed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			u.info("Invalid seed: %s", value)
			return
		}
		u.SetSeed(seed)
		if u.fixed {
			u.info("Move choice is fixed, %s has no effect", name)
		}
	case "bookfile":
		u.book = nil
		if value != "" && value != "<empty>" {
			bk, err := book.LoadPolyglot(value)
			if err != nil {
				u.info("Failed to load book: %v", err)
			} else {
				u.book = bk
				u.info("Book loaded: %d positions", bk.Size())
			}
		}
		u.rebuildPolicy()
		if u.fixed {
			u.info("Move choice is fixed, %s has no effect", name)
		}
	case "perftcache":
		u.openCache(value)
	case "debug":
		board.DebugMoveValidation = strings.ToLower(value) == "true"
	default:
		u.info("Unknown option: %s", name)
	}
}

// rebuildPolicy derives the policy from the Seed and BookFile options.
func (u *UCI) rebuildPolicy() {
	if u.fixed {
		return
	}
	var p player.Policy = player.NewRandom(u.seed)
	if u.book != nil {
		p = player.NewBook(u.book, u.seed, p)
	}
	u.policy = p
}

func (u *UCI) openCache(value string) {
	if err := u.closeCache(); err != nil {
		u.info("Failed to close perft cache: %v", err)
	}
	if value == "" || value == "<empty>" {
		return
	}

	var (
		c   *storage.PerftCache
		err error
	)
	if value == memoryCache {
		c, err = storage.OpenInMemory()
	} else {
		c, err = storage.Open(value)
	}
	if err != nil {
		u.info("Failed to open perft cache: %v", err)
		return
	}
	u.cache = c
	u.ownedCache = true
}

func (u *UCI) closeCache() error {
	c, owned := u.cache, u.ownedCache
	u.cache, u.ownedCache = nil, false
	if c != nil && owned {
		return c.Close()
	}
	return nil
}

// handlePerft counts leaf nodes below the current position and lists the
// count under each root move.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.info("Invalid depth: %s", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	var (
		divide map[string]int64
		cached bool
	)
	if u.cache != nil {
		var err error
		divide, cached, err = u.cache.Divide(u.position, depth)
		if err != nil {
			u.info("Perft cache: %v", err)
			divide = board.Divide(u.position, depth)
		}
	} else {
		divide = board.Divide(u.position, depth)
	}
	elapsed := time.Since(start)

	moves := maps.Keys(divide)
	slices.Sort(moves)
	var nodes int64
	for _, m := range moves {
		u.printf("%s: %d\n", m, divide[m])
		nodes += divide[m]
	}

	u.println("")
	u.printf("Nodes searched: %d\n", nodes)
	if cached {
		u.info("perft %d from cache", depth)
	} else {
		u.info("perft %d in %v", depth, elapsed)
	}
}
