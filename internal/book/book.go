package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/davidot/ActionsTest-sub000/internal/board"
)

// Entry is a single book move for a position.
type Entry struct {
	From      board.Square
	To        board.Square
	Promotion board.PieceType // NoPieceType unless the move promotes
	Weight    uint16
}

// Long returns the entry's move in long format as it would be played on b.
// Polyglot writes castling as the king capturing its own rook; that is
// turned into the king's two-square step when a king stands on From.
func (e Entry) Long(b *board.Board) string {
	to := e.To
	if p := b.PieceAt(e.From); p != board.NoPiece && p.Type() == board.King && e.From.Rank() == e.To.Rank() {
		switch {
		case e.To.File()-e.From.File() > 1:
			to = board.NewSquare(6, e.From.Rank())
		case e.From.File()-e.To.File() > 1:
			to = board.NewSquare(2, e.From.Rank())
		}
	}
	s := e.From.String() + to.String()
	if e.Promotion != board.NoPieceType {
		s += string(e.Promotion.Char())
	}
	return s
}

// Book represents an opening book keyed by Polyglot position hash.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
	}
}

// LoadPolyglot loads a Polyglot format opening book from a file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPolyglotReader(file)
}

// Polyglot entry format:
// 8 bytes: position key (big-endian)
// 2 bytes: move (big-endian)
// 2 bytes: weight (big-endian)
// 4 bytes: learn data (ignored)
const entrySize = 16

// LoadPolyglotReader loads a Polyglot format book from a reader.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	book := New()

	var raw [entrySize]byte
	for n := 0; ; n++ {
		_, err := io.ReadFull(r, raw[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("book entry %d: %w", n, err)
		}

		key := binary.BigEndian.Uint64(raw[0:8])
		e, ok := decodeMove(binary.BigEndian.Uint16(raw[8:10]))
		if !ok {
			continue
		}
		e.Weight = binary.BigEndian.Uint16(raw[10:12])
		book.entries[key] = append(book.entries[key], e)
	}

	return book, nil
}

// decodeMove unpacks a Polyglot move.
// Polyglot move format (bits):
// 0-5: to square
// 6-11: from square
// 12-14: promotion piece (0=none, 1=knight, 2=bishop, 3=rook, 4=queen)
func decodeMove(data uint16) (Entry, bool) {
	to := board.Square(data & 0x3F)
	from := board.Square((data >> 6) & 0x3F)
	promo := (data >> 12) & 7
	if from == to || promo > 4 {
		return Entry{}, false
	}

	e := Entry{From: from, To: to, Promotion: board.NoPieceType}
	if promo > 0 {
		e.Promotion = board.Knight + board.PieceType(promo-1)
	}
	return e, true
}

func encodeMove(e Entry) uint16 {
	data := uint16(e.To) | uint16(e.From)<<6
	if e.Promotion != board.NoPieceType {
		data |= uint16(e.Promotion-board.Knight+1) << 12
	}
	return data
}

// Add records a move for the position with the given Polyglot key.
func (b *Book) Add(key uint64, e Entry) {
	b.entries[key] = append(b.entries[key], e)
}

// WritePolyglot writes the book in Polyglot format, sorted by key as the
// format requires.
func (b *Book) WritePolyglot(w io.Writer) error {
	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var raw [entrySize]byte
	for _, k := range keys {
		for _, e := range b.entries[k] {
			binary.BigEndian.PutUint64(raw[0:8], k)
			binary.BigEndian.PutUint16(raw[8:10], encodeMove(e))
			binary.BigEndian.PutUint16(raw[10:12], e.Weight)
			binary.BigEndian.PutUint32(raw[12:16], 0)
			if _, err := w.Write(raw[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Probe looks up a position in the book and returns a legal move using
// weighted random selection. Entries that name no legal move are skipped.
func (b *Book) Probe(pos *board.Board, rng *rand.Rand) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	legal := board.GenerateMoves(pos)
	var moves []board.Move
	var weights []uint32
	var total uint32
	for _, e := range b.ProbeAll(pos) {
		m, err := board.ParseLongMove(e.Long(pos), legal)
		if err != nil {
			continue
		}
		moves = append(moves, m)
		weights = append(weights, uint32(e.Weight))
		total += uint32(e.Weight)
	}

	if len(moves) == 0 {
		return board.NoMove, false
	}
	if total == 0 {
		// All weights are 0, just pick the first
		return moves[0], true
	}

	r := uint32(rng.Int63n(int64(total)))
	var cumulative uint32
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return moves[i], true
		}
	}
	return moves[0], true
}

// ProbeAll returns all book entries for the position, sorted by weight.
func (b *Book) ProbeAll(pos *board.Board) []Entry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok {
		return nil
	}

	// Sort by weight (highest first)
	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})

	return result
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
