// Package player provides move-selection policies that pick one move out of
// a generated move list.
package player

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/davidot/ActionsTest-sub000/internal/board"
	"github.com/davidot/ActionsTest-sub000/internal/book"
)

var (
	// ErrNoMoves is returned by Play when the side to move has no legal move.
	ErrNoMoves = errors.New("no legal moves")
	// ErrIllegalChoice is returned by Play when a policy picks a move that
	// is not in the generated list.
	ErrIllegalChoice = errors.New("policy chose a move outside the list")
)

// Policy picks a move for the side to move in b out of moves, which holds
// the legal moves of b and is never empty. Returning NoMove means the
// policy has nothing to offer.
type Policy interface {
	SelectMove(b *board.Board, moves *board.MoveList) board.Move
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(b *board.Board, moves *board.MoveList) board.Move

// SelectMove calls f.
func (f PolicyFunc) SelectMove(b *board.Board, moves *board.MoveList) board.Move {
	return f(b, moves)
}

// Choose asks p for a move in b without playing it. The returned move is
// always a member of the legal move list.
func Choose(b *board.Board, p Policy) (board.Move, error) {
	moves := board.GenerateMoves(b)
	if moves.Len() == 0 {
		return board.NoMove, ErrNoMoves
	}

	m := p.SelectMove(b, moves)
	if !moves.Contains(m) {
		return board.NoMove, fmt.Errorf("%w: %s", ErrIllegalChoice, m)
	}
	return m, nil
}

// Play asks p for a move and makes it on b.
func Play(b *board.Board, p Policy) (board.Move, error) {
	m, err := Choose(b, p)
	if err != nil {
		return board.NoMove, err
	}
	b.MakeMove(m)
	return m, nil
}

// First always picks the first generated move.
var First = PolicyFunc(func(_ *board.Board, moves *board.MoveList) board.Move {
	return moves.Get(0)
})

// Random picks uniformly among the legal moves.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy; equal seeds give equal games.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// SelectMove implements Policy.
func (r *Random) SelectMove(_ *board.Board, moves *board.MoveList) board.Move {
	return moves.Get(r.rng.Intn(moves.Len()))
}

// Scripted replays a fixed sequence of moves written in SAN. Once the
// script runs out, or a move does not match the position, it returns
// NoMove and records the reason in Err.
type Scripted struct {
	script []string
	next   int
	err    error
}

// NewScripted creates a policy that replays script in order.
func NewScripted(script ...string) *Scripted {
	return &Scripted{script: script}
}

// SelectMove implements Policy.
func (s *Scripted) SelectMove(_ *board.Board, moves *board.MoveList) board.Move {
	if s.err != nil {
		return board.NoMove
	}
	if s.next >= len(s.script) {
		s.err = fmt.Errorf("script exhausted after %d moves", len(s.script))
		return board.NoMove
	}

	text := s.script[s.next]
	m, err := board.DecodeSAN(text, moves)
	if err != nil {
		s.err = fmt.Errorf("script move %d %q: %w", s.next+1, text, err)
		return board.NoMove
	}
	s.next++
	return m
}

// Remaining returns the number of script moves not yet played.
func (s *Scripted) Remaining() int {
	return len(s.script) - s.next
}

// Err returns the reason the script stopped, if it did.
func (s *Scripted) Err() error {
	return s.err
}

// Book plays from an opening book and hands over to a fallback policy when
// the position is not covered.
type Book struct {
	book     *book.Book
	rng      *rand.Rand
	fallback Policy
}

// NewBook creates a book policy. A nil fallback means First.
func NewBook(bk *book.Book, seed int64, fallback Policy) *Book {
	if fallback == nil {
		fallback = First
	}
	return &Book{
		book:     bk,
		rng:      rand.New(rand.NewSource(seed)),
		fallback: fallback,
	}
}

// SelectMove implements Policy.
func (p *Book) SelectMove(b *board.Board, moves *board.MoveList) board.Move {
	if m, ok := p.book.Probe(b, p.rng); ok && moves.Contains(m) {
		return m
	}
	return p.fallback.SelectMove(b, moves)
}

// PlayGame lets white and black alternate from b until the game ends, a
// draw by rule is reached or maxPlies moves have been made. It returns the
// moves played. A policy error stops the game and is returned with the
// moves made so far.
func PlayGame(b *board.Board, white, black Policy, maxPlies int) ([]board.Move, error) {
	var played []board.Move
	for len(played) < maxPlies && !b.IsDrawn() {
		p := white
		if b.SideToMove() == board.Black {
			p = black
		}
		m, err := Play(b, p)
		if errors.Is(err, ErrNoMoves) {
			break
		}
		if err != nil {
			return played, err
		}
		played = append(played, m)
	}
	return played, nil
}
