package board

// Polyglot-layout keys. The layout (piece kinds, KQkq castling, file-based en
// passant, white-to-move key) follows the Polyglot book format; the values come
// from a seeded generator, so books must be written with the same keys.
var (
	polyglotPieces     [12][64]uint64 // [piece_kind][square]
	polyglotCastling   [4]uint64      // [KQkq]
	polyglotEnPassant  [8]uint64      // [file]
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

// PolyglotHash computes the book key of the position using the Polyglot key
// layout. The key values are not the published Polyglot table, so only books
// written by Book.WritePolyglot can be probed; standard .bin books never match.
func (b *Board) PolyglotHash() uint64 {
	var hash uint64

	// Polyglot piece ordering: bp, wp, bn, wn, bb, wb, br, wr, bq, wq, bk, wk
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		kind := 2 * int(p.Type())
		if p.Color() == White {
			kind++
		}
		hash ^= polyglotPieces[kind][sq]
	}

	if b.castling&WhiteKingSideCastle != 0 {
		hash ^= polyglotCastling[0]
	}
	if b.castling&WhiteQueenSideCastle != 0 {
		hash ^= polyglotCastling[1]
	}
	if b.castling&BlackKingSideCastle != 0 {
		hash ^= polyglotCastling[2]
	}
	if b.castling&BlackQueenSideCastle != 0 {
		hash ^= polyglotCastling[3]
	}

	// En passant only counts when a pawn of the side to move could capture.
	if b.enPassant != NoSquare {
		us := b.sideToMove
		if PawnAttacks(b.enPassant, us.Other())&b.Pieces(us, Pawn) != 0 {
			hash ^= polyglotEnPassant[b.enPassant.File()]
		}
	}

	if b.sideToMove == White {
		hash ^= polyglotSideToMove
	}

	return hash
}

func initPolyglotKeys() {
	var s uint64 = 0x37b4a4b3f0d1c0d0

	rng := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	// Generate piece keys (12 piece types * 64 squares = 768 keys)
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng()
		}
	}

	// Castling keys (4)
	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng()
	}

	// En passant keys (8)
	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng()
	}

	// Side to move key
	polyglotSideToMove = rng()
}
