package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/davidot/ActionsTest-sub000/internal/board"
)

// Key prefix for perft results.
const keyPerftPrefix = "perft/"

// PerftResult is a stored perft count for one position and depth.
type PerftResult struct {
	Position string           `json:"position"`
	Depth    int              `json:"depth"`
	Nodes    int64            `json:"nodes"`
	Divide   map[string]int64 `json:"divide,omitempty"`
	Elapsed  time.Duration    `json:"elapsed"`
	SavedAt  time.Time        `json:"saved_at"`
}

// PerftCache wraps BadgerDB to keep perft counts across runs.
type PerftCache struct {
	db *badger.DB
}

// Open opens the perft cache in dir. An empty dir selects the platform
// data directory.
func Open(dir string) (*PerftCache, error) {
	if dir == "" {
		var err error
		dir, err = GetDatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*PerftCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*PerftCache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft cache: %w", err)
	}
	return &PerftCache{db: db}, nil
}

// Close closes the database
func (c *PerftCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// positionKey drops the move counters from a FEN: they do not change the
// move tree, so positions differing only there share an entry.
func positionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

func perftKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%d/%s", keyPerftPrefix, depth, positionKey(fen)))
}

// Load returns the stored result for the position and depth. The second
// result is false if nothing is stored.
func (c *PerftCache) Load(fen string, depth int) (*PerftResult, bool, error) {
	var res *PerftResult

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			res = &PerftResult{}
			return json.Unmarshal(val, res)
		})
	})
	if err != nil {
		return nil, false, err
	}
	return res, res != nil, nil
}

// Save stores a result, replacing any earlier one for the same key.
func (c *PerftCache) Save(res *PerftResult) error {
	res.Position = positionKey(res.Position)
	res.SavedAt = time.Now()

	data, err := json.Marshal(res)
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(res.Position, res.Depth), data)
	})
}

// Perft returns the perft count of b at depth, computing and storing it on
// a miss. The second result reports whether the count came from the cache.
func (c *PerftCache) Perft(b *board.Board, depth int) (int64, bool, error) {
	fen := b.FEN()
	if res, ok, err := c.Load(fen, depth); err != nil {
		return 0, false, err
	} else if ok {
		return res.Nodes, true, nil
	}

	start := time.Now()
	nodes := board.Perft(b, depth)
	err := c.Save(&PerftResult{
		Position: fen,
		Depth:    depth,
		Nodes:    nodes,
		Elapsed:  time.Since(start),
	})
	return nodes, false, err
}

// Divide returns per-move perft counts of b at depth, computing and storing
// them on a miss.
func (c *PerftCache) Divide(b *board.Board, depth int) (map[string]int64, bool, error) {
	fen := b.FEN()
	if res, ok, err := c.Load(fen, depth); err != nil {
		return nil, false, err
	} else if ok && res.Divide != nil {
		return res.Divide, true, nil
	}

	start := time.Now()
	div := board.Divide(b, depth)
	var nodes int64
	for _, n := range div {
		nodes += n
	}
	err := c.Save(&PerftResult{
		Position: fen,
		Depth:    depth,
		Nodes:    nodes,
		Divide:   div,
		Elapsed:  time.Since(start),
	})
	return div, false, err
}

// Count returns the number of stored results.
func (c *PerftCache) Count() (int, error) {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPerftPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
