package board

import "fmt"

// undoRecord stores what MakeMove cannot recompute when undoing a move.
type undoRecord struct {
	move          Move
	captured      Piece
	castling      CastlingRights
	enPassant     Square
	halfMoveClock int
	key           uint64 // Key of the position before the move
	irreversible  bool   // No earlier position can recur after this move
	null          bool
}

// enPassantVictim returns the square of the pawn removed by an en passant
// capture landing on target.
func enPassantVictim(target Square, us Color) Square {
	if us == White {
		return target - 8
	}
	return target + 8
}

// castlingFor returns the rook relocation of a castling king move.
func castlingFor(from, to Square) (castleSquares, bool) {
	for _, layout := range castlingLayout {
		if layout.kingFrom == from && layout.kingTo == to {
			return layout, true
		}
	}
	return castleSquares{}, false
}

// MakeMove applies a move and pushes an undo record.
//
// The move must be pseudo-legal for the current position, which is not
// re-validated. Moving from an empty square, moving an enemy piece, or
// capturing one of your own pieces panics.
func (b *Board) MakeMove(m Move) {
	us := b.sideToMove
	from := m.From()
	to := m.To()
	piece := b.squares[from]

	if piece == NoPiece || piece.Color() != us {
		panic(fmt.Sprintf("board: move %v does not start on a %v piece", m, us))
	}
	if target := b.squares[to]; target != NoPiece && target.Color() == us {
		panic(fmt.Sprintf("board: move %v captures own %v", m, target.Type()))
	}

	rec := undoRecord{
		move:          m,
		captured:      NoPiece,
		castling:      b.castling,
		enPassant:     b.enPassant,
		halfMoveClock: b.halfMoveClock,
		key:           b.key,
	}
	pt := piece.Type()

	if m.IsEnPassant() {
		rec.captured = b.removePiece(enPassantVictim(to, us))
	} else {
		rec.captured = b.removePiece(to)
	}

	b.movePiece(from, to)

	if m.IsPromotion() {
		b.removePiece(to)
		b.putPiece(NewPiece(m.Promotion(), us), to)
	}

	if m.IsCastling() {
		layout, ok := castlingFor(from, to)
		if !ok {
			panic(fmt.Sprintf("board: %v is not a castling move", m))
		}
		b.movePiece(layout.rookFrom, layout.rookTo)
	}

	// A king or rook leaving its home square, or a rook captured on it,
	// gives up the matching rights for good.
	b.setCastling(b.castling & castlingKeep[from] & castlingKeep[to])

	ep := NoSquare
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		ep = Square((int(from) + int(to)) / 2)
	}
	b.setEnPassant(ep)

	if pt == Pawn || rec.captured != NoPiece {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}

	if us == Black {
		b.fullMoveNumber++
	}

	b.toggleSide()

	rec.irreversible = pt == Pawn || rec.captured != NoPiece || b.castling != rec.castling
	b.history = append(b.history, rec)

	if DebugMoveValidation {
		b.debugValidate("make", m)
	}
}

// UndoMove takes back the most recent move, null moves included.
// It returns false if there is nothing to undo.
func (b *Board) UndoMove() bool {
	n := len(b.history)
	if n == 0 {
		return false
	}
	rec := b.history[n-1]
	b.history = b.history[:n-1]

	b.sideToMove = b.sideToMove.Other()
	us := b.sideToMove

	if !rec.null {
		m := rec.move
		from := m.From()
		to := m.To()

		if m.IsCastling() {
			layout, _ := castlingFor(from, to)
			b.movePiece(layout.rookTo, layout.rookFrom)
		}

		if m.IsPromotion() {
			b.removePiece(to)
			b.putPiece(NewPiece(Pawn, us), to)
		}

		b.movePiece(to, from)

		if rec.captured != NoPiece {
			capSq := to
			if m.IsEnPassant() {
				capSq = enPassantVictim(to, us)
			}
			b.putPiece(rec.captured, capSq)
		}

		if us == Black {
			b.fullMoveNumber--
		}
	}

	b.castling = rec.castling
	b.enPassant = rec.enPassant
	b.halfMoveClock = rec.halfMoveClock
	b.key = rec.key

	if DebugMoveValidation {
		b.debugValidate("undo", rec.move)
	}
	return true
}

// MakeNullMove passes the turn: the side to move flips and the en passant
// target is cleared. Nothing else changes, but repetition counting does not
// look past a null move.
func (b *Board) MakeNullMove() {
	b.history = append(b.history, undoRecord{
		move:          NoMove,
		captured:      NoPiece,
		castling:      b.castling,
		enPassant:     b.enPassant,
		halfMoveClock: b.halfMoveClock,
		key:           b.key,
		irreversible:  true,
		null:          true,
	})
	b.setEnPassant(NoSquare)
	b.toggleSide()
}

// UndoNullMove takes back a null move. It returns false if the most recent
// history entry is not a null move.
func (b *Board) UndoNullMove() bool {
	n := len(b.history)
	if n == 0 || !b.history[n-1].null {
		return false
	}
	return b.UndoMove()
}

// Ply returns the number of moves (null moves included) that can be undone.
func (b *Board) Ply() int {
	return len(b.history)
}

// LastMove returns the most recently applied move, NoMove for a null move.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return NoMove, false
	}
	return b.history[len(b.history)-1].move, true
}

// MoveExcursion applies m, calls fn on the resulting board and restores the
// board before returning fn's result. The restore is deferred, so it also
// happens when fn panics, and moves fn leaves applied are taken back too.
func MoveExcursion[T any](b *Board, m Move, fn func(*Board) T) T {
	depth := len(b.history)
	b.MakeMove(m)
	defer func() {
		for len(b.history) > depth {
			b.UndoMove()
		}
	}()
	return fn(b)
}

// PositionRepeated counts earlier occurrences of the current position since
// the last irreversible move (capture, pawn move, loss of castling rights or
// null move).
func (b *Board) PositionRepeated() int {
	count := 0
	for i := len(b.history) - 1; i >= 0; i-- {
		rec := b.history[i]
		if rec.irreversible {
			break
		}
		if rec.key == b.key {
			count++
		}
	}
	return count
}

// IsDrawn reports a draw by the fifty-move rule or by threefold repetition.
func (b *Board) IsDrawn() bool {
	return b.halfMoveClock >= 100 || b.PositionRepeated() >= 2
}
