package board

import "fmt"

// MoveFlag classifies a move beyond its origin and destination.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagCastling
	FlagDoublePush
	FlagEnPassant
	FlagPromoteKnight
	FlagPromoteBishop
	FlagPromoteRook
	FlagPromoteQueen
)

// String returns a short name for the flag.
func (f MoveFlag) String() string {
	switch f {
	case FlagNone:
		return "none"
	case FlagCastling:
		return "castling"
	case FlagDoublePush:
		return "double-push"
	case FlagEnPassant:
		return "en-passant"
	case FlagPromoteKnight:
		return "promote-knight"
	case FlagPromoteBishop:
		return "promote-bishop"
	case FlagPromoteRook:
		return "promote-rook"
	case FlagPromoteQueen:
		return "promote-queen"
	}
	return "invalid"
}

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-14: flag (see MoveFlag)
type Move uint16

// NoMove represents an invalid or null move. Its origin equals its
// destination, which no real move has.
const NoMove Move = 0

// NewMoveWithFlag creates a move with an explicit flag.
// The origin and destination must differ.
func NewMoveWithFlag(from, to Square, flag MoveFlag) Move {
	if from == to {
		panic(fmt.Sprintf("board: move from %v to itself", from))
	}
	return Move(from) | Move(to)<<6 | Move(flag&7)<<12
}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return NewMoveWithFlag(from, to, FlagNone)
}

// NewDoublePush creates a two-square pawn advance.
func NewDoublePush(from, to Square) Move {
	return NewMoveWithFlag(from, to, FlagDoublePush)
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	if promo < Knight || promo > Queen {
		panic(fmt.Sprintf("board: cannot promote to %v", promo))
	}
	return NewMoveWithFlag(from, to, FlagPromoteKnight+MoveFlag(promo-Knight))
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return NewMoveWithFlag(from, to, FlagEnPassant)
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return NewMoveWithFlag(from, to, FlagCastling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 12) & 7)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag() >= FlagPromoteKnight
}

// Promotion returns the promotion piece type. Calling it on a move that is
// not a promotion is a programming error and panics.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		panic(fmt.Sprintf("board: promotion queried on non-promotion move %v", m))
	}
	return Knight + PieceType(m.Flag()-FlagPromoteKnight)
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePush returns true if this is a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m.Flag() == FlagDoublePush
}

// String returns the long format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseLongMove resolves long-format move text against a generated list.
// The text must match the long format of exactly one entry.
func ParseLongMove(s string, ml *MoveList) (Move, error) {
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrNoMatchingMove, s)
}

// movesCapacity covers the legal moves of any position reachable in play.
// Lists grow past it for composed positions that have more.
const movesCapacity = 218

// moveInfo records what the generator knew about a move when it was added.
type moveInfo struct {
	piece   PieceType
	capture bool
}

// MoveList is an ordered list of moves. Alongside each move it keeps the
// moving piece type and whether the move captures, so move text can be
// produced without the board.
type MoveList struct {
	moves []Move
	info  []moveInfo
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{
		moves: make([]Move, 0, movesCapacity),
		info:  make([]moveInfo, 0, movesCapacity),
	}
}

// Add adds a move to the list without piece or capture information.
func (ml *MoveList) Add(m Move) {
	ml.add(m, NoPieceType, m.IsEnPassant())
}

func (ml *MoveList) add(m Move, pt PieceType, capture bool) {
	ml.moves = append(ml.moves, m)
	ml.info = append(ml.info, moveInfo{piece: pt, capture: capture})
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.moves = ml.moves[:0]
	ml.info = ml.info[:0]
}

// Index returns the position of m in the list, or -1.
func (ml *MoveList) Index(m Move) int {
	for i, o := range ml.moves {
		if o == m {
			return i
		}
	}
	return -1
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	return ml.Index(m) >= 0
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}

// ForEach calls f for every move in order.
func (ml *MoveList) ForEach(f func(Move)) {
	for _, m := range ml.moves {
		f(m)
	}
}

// Filter returns the moves for which keep returns true.
func (ml *MoveList) Filter(keep func(Move) bool) []Move {
	var out []Move
	for _, m := range ml.moves {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// FromSquare returns the moves that start on sq.
func (ml *MoveList) FromSquare(sq Square) []Move {
	return ml.Filter(func(m Move) bool { return m.From() == sq })
}

// PieceType returns the type of the piece making move i.
func (ml *MoveList) PieceType(i int) PieceType {
	return ml.info[i].piece
}

// IsCapture reports whether move i removes an enemy piece.
func (ml *MoveList) IsCapture(i int) bool {
	return ml.info[i].capture
}
