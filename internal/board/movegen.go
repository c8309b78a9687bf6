package board

// GenerateMoves returns every legal move for the side to move.
//
// Each piece of the side to move is visited in turn and its candidate moves
// are checked for king safety one by one. The order of the result is not
// part of the contract. Positions without a king, or with several, are
// handled without fault: with no king nothing can be left in check, and with
// several only the cached one is guarded.
func GenerateMoves(b *Board) *MoveList {
	ml := NewMoveList()
	g := generator{b: b, ml: ml, us: b.sideToMove, them: b.sideToMove.Other()}

	own := b.byColor[g.us]
	for own != 0 {
		from := own.PopLSB()
		switch b.squares[from].Type() {
		case Pawn:
			g.pawnMoves(from)
		case Knight:
			g.stepMoves(from, Knight, knightAttacks[from])
		case Bishop:
			g.slideMoves(from, Bishop, bishopDirections[:])
		case Rook:
			g.slideMoves(from, Rook, rookDirections[:])
		case Queen:
			g.slideMoves(from, Queen, bishopDirections[:])
			g.slideMoves(from, Queen, rookDirections[:])
		case King:
			g.stepMoves(from, King, kingAttacks[from])
			g.castlingMoves(from)
		}
	}
	return ml
}

type generator struct {
	b        *Board
	ml       *MoveList
	us, them Color
}

// target classifies a destination. It returns whether the move may be
// tried at all and whether it captures. Own pieces and either king block.
func (g *generator) target(to Square) (ok, capture bool) {
	p := g.b.squares[to]
	if p == NoPiece {
		return true, false
	}
	if p.Color() == g.us || p.Type() == King {
		return false, false
	}
	return true, true
}

// stepMoves adds the single-step moves of a knight or king.
func (g *generator) stepMoves(from Square, pt PieceType, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		if ok, capture := g.target(to); ok {
			g.try(NewMove(from, to), pt, capture)
		}
	}
}

// slideMoves walks each ray until it is blocked. The blocking square is
// tried only when it holds an enemy piece other than the king.
func (g *generator) slideMoves(from Square, pt PieceType, dirs []Direction) {
	for _, d := range dirs {
		bb := SquareBB(from)
		for {
			bb = bb.Step(d)
			if bb == 0 {
				break
			}
			to := bb.LSB()
			ok, capture := g.target(to)
			if !ok {
				break
			}
			g.try(NewMove(from, to), pt, capture)
			if capture {
				break
			}
		}
	}
}

func (g *generator) pawnMoves(from Square) {
	b := g.b
	push := pawnPushes[g.us][from]
	if push == 0 {
		return
	}

	// Pushes.
	one := push.LSB()
	if b.IsEmpty(one) {
		g.pawnMove(from, one, false)
		if from.RelativeRank(g.us) == 1 {
			two := pawnPushes[g.us][one].LSB()
			if b.IsEmpty(two) {
				g.try(NewDoublePush(from, two), Pawn, false)
			}
		}
	}

	// Captures, en passant included.
	attacks := pawnAttacks[g.us][from]
	for attacks != 0 {
		to := attacks.PopLSB()
		if to == b.enPassant {
			g.try(NewEnPassant(from, to), Pawn, true)
			continue
		}
		if ok, capture := g.target(to); ok && capture {
			g.pawnMove(from, to, true)
		}
	}
}

// pawnMove adds a pawn move, expanding it into the four promotions when it
// reaches the last rank.
func (g *generator) pawnMove(from, to Square, capture bool) {
	if to.RelativeRank(g.us) != 7 {
		g.try(NewMove(from, to), Pawn, capture)
		return
	}
	if !g.legal(NewMove(from, to), Pawn) {
		return
	}
	for _, promo := range [4]PieceType{Queen, Rook, Bishop, Knight} {
		g.ml.add(NewPromotion(from, to, promo), Pawn, capture)
	}
}

// castlingMoves adds the castling moves still allowed by the rights. Every
// square between king and rook must be empty, and the king may not start
// on, pass over or land on an attacked square.
func (g *generator) castlingMoves(from Square) {
	b := g.b
	for _, kingSide := range [2]bool{true, false} {
		right := castleRight(g.us, kingSide)
		if b.castling&right == 0 {
			continue
		}
		layout := castlingLayout[right]
		if layout.kingFrom != from {
			continue
		}
		if Between(layout.kingFrom, layout.rookFrom)&b.all != 0 {
			continue
		}
		path := Between(layout.kingFrom, layout.kingTo) | SquareBB(layout.kingFrom) | SquareBB(layout.kingTo)
		safe := true
		for path != 0 {
			if b.IsSquareAttacked(path.PopLSB(), g.them) {
				safe = false
				break
			}
		}
		if safe {
			g.ml.add(NewCastling(layout.kingFrom, layout.kingTo), King, false)
		}
	}
}

func (g *generator) try(m Move, pt PieceType, capture bool) {
	if g.legal(m, pt) {
		g.ml.add(m, pt, capture)
	}
}

// legal reports whether m leaves the mover's king unattacked. The move is
// not played: attacks are recomputed against the occupancy it would leave,
// with the moving piece lifted from its origin, the destination filled and
// any captured piece unable to attack.
func (g *generator) legal(m Move, pt PieceType) bool {
	b := g.b
	from, to := m.From(), m.To()

	gone := SquareBB(to)
	occ := (b.all &^ SquareBB(from)) | gone
	if m.IsEnPassant() {
		victim := SquareBB(enPassantVictim(to, g.us))
		occ &^= victim
		gone |= victim
	}

	king := b.kingSquare[g.us]
	if pt == King {
		king = to
	} else if king == NoSquare {
		return true
	}

	return b.AttackersByColor(king, g.them, occ)&^gone == 0
}

// HasLegalMoves returns true if the side to move has any legal moves.
func HasLegalMoves(b *Board) bool {
	return GenerateMoves(b).Len() > 0
}

// IsCheckmate returns true if the side to move is in check and cannot move.
func IsCheckmate(b *Board) bool {
	return b.InCheck() && !HasLegalMoves(b)
}

// IsStalemate returns true if the side to move is not in check and cannot move.
func IsStalemate(b *Board) bool {
	return !b.InCheck() && !HasLegalMoves(b)
}
