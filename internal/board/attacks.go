package board

// Direction is one of the eight ray directions on the board.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

var (
	rookDirections   = [4]Direction{North, South, East, West}
	bishopDirections = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
)

// Square offsets for the single-step pieces. Wraparound is filtered with the
// distance table rather than file masks.
var (
	knightOffsets = [8]int{-17, -15, -10, -6, 6, 10, 15, 17}
	kingOffsets   = [8]int{-9, -8, -7, -1, 1, 7, 8, 9}
)

// Pre-computed attack tables, built once in init and read-only afterwards.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	pawnPushes    [2][64]Bitboard // [Color][Square] - single push targets

	// Empty-board reach of the sliders.
	bishopPseudo [64]Bitboard
	rookPseudo   [64]Bitboard

	// Chebyshev distance between two squares.
	squareDistance [64][64]int

	betweenBB [64][64]Bitboard // Squares strictly between two squares
	lineBB    [64][64]Bitboard // Full line through two squares (including endpoints)
)

func init() {
	initDistance()
	initStepAttacks()
	initPawnAttacks()
	initPseudoAttacks()
	initLines()
}

func initDistance() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			df := abs(sq1.File() - sq2.File())
			dr := abs(sq1.Rank() - sq2.Rank())
			squareDistance[sq1][sq2] = max(df, dr)
		}
	}
}

// stepTargets collects the on-board targets of the given offsets from sq.
// A jump wider than two files or ranks can only be a wraparound, so it is
// rejected together with anything that falls off the board.
func stepTargets(sq Square, offsets []int) Bitboard {
	var bb Bitboard
	for _, off := range offsets {
		to := int(sq) + off
		if to < 0 || to >= NumSquares {
			continue
		}
		if squareDistance[sq][to] > 2 {
			continue
		}
		bb |= SquareBB(Square(to))
	}
	return bb
}

func initStepAttacks() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = stepTargets(sq, knightOffsets[:])
		kingAttacks[sq] = stepTargets(sq, kingOffsets[:])
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		// White pawn attacks (diagonal captures going up)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()

		// Black pawn attacks (diagonal captures going down)
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()

		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

func initPseudoAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bishopPseudo[sq] = BishopAttacks(sq, Empty)
		rookPseudo[sq] = RookAttacks(sq, Empty)
	}
}

func initLines() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			if sq1 == sq2 {
				continue
			}

			var pseudo [4]Direction
			var attacks func(Square, Bitboard) Bitboard
			switch {
			case rookPseudo[sq1].IsSet(sq2):
				pseudo, attacks = rookDirections, RookAttacks
			case bishopPseudo[sq1].IsSet(sq2):
				pseudo, attacks = bishopDirections, BishopAttacks
			default:
				continue
			}

			// The line is the pair of opposite rays that meet both squares.
			a, b := SquareBB(sq1), SquareBB(sq2)
			for _, d := range pseudo {
				ray := Ray(sq1, d, Empty)
				if ray&b != 0 {
					lineBB[sq1][sq2] = ray | Ray(sq1, opposite(d), Empty) | a
				}
			}
			betweenBB[sq1][sq2] = attacks(sq1, b) & attacks(sq2, a)
		}
	}
}

func opposite(d Direction) Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case NorthEast:
		return SouthWest
	case NorthWest:
		return SouthEast
	case SouthEast:
		return NorthWest
	default:
		return NorthEast
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the Chebyshev distance between two squares.
func Distance(sq1, sq2 Square) int {
	return squareDistance[sq1][sq2]
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnPushes returns the pawn push target bitboard for a square and color.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// PseudoAttacks returns the empty-board attack set of a piece type.
// Pawns have no colorless pseudo attack set and yield Empty.
func PseudoAttacks(pt PieceType, sq Square) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return bishopPseudo[sq]
	case Rook:
		return rookPseudo[sq]
	case Queen:
		return bishopPseudo[sq] | rookPseudo[sq]
	case King:
		return kingAttacks[sq]
	}
	return Empty
}

// Ray walks from sq in direction d and returns the squares passed, stopping
// at the first occupied square (included) or the edge of the board.
func Ray(sq Square, d Direction, occupied Bitboard) Bitboard {
	var attacks Bitboard
	bb := SquareBB(sq)
	for {
		bb = bb.Step(d)
		if bb == 0 {
			return attacks
		}
		attacks |= bb
		if bb&occupied != 0 {
			return attacks
		}
	}
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range bishopDirections {
		attacks |= Ray(sq, d, occupied)
	}
	return attacks
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range rookDirections {
		attacks |= Ray(sq, d, occupied)
	}
	return attacks
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// SlidingAttacks returns the attacks of a slider of the given type on sq.
func SlidingAttacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	}
	return Empty
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares, both
// squares included. Returns empty if squares are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}

// Aligned returns true if three squares are on the same line.
func Aligned(sq1, sq2, sq3 Square) bool {
	return lineBB[sq1][sq2]&SquareBB(sq3) != 0
}

// AttackersByColor returns a bitboard of pieces of the given color attacking a square.
func (b *Board) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	own := b.byColor[c]
	bishops := b.byType[Bishop] | b.byType[Queen]
	rooks := b.byType[Rook] | b.byType[Queen]
	return own & ((pawnAttacks[c.Other()][sq] & b.byType[Pawn]) |
		(knightAttacks[sq] & b.byType[Knight]) |
		(kingAttacks[sq] & b.byType[King]) |
		(BishopAttacks(sq, occupied) & bishops) |
		(RookAttacks(sq, occupied) & rooks))
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (b *Board) IsSquareAttacked(sq Square, byColor Color) bool {
	return b.AttackersByColor(sq, byColor, b.all) != 0
}

// Checkers returns the pieces giving check to the side to move.
func (b *Board) Checkers() Bitboard {
	us := b.sideToMove
	if b.byColor[us]&b.byType[King] == 0 {
		return Empty
	}
	return b.AttackersByColor(b.kingSquare[us], us.Other(), b.all)
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	return b.Checkers() != 0
}
