package board

import (
	"fmt"
	"log"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// castleSquares describes where king and rook start and land for one right.
type castleSquares struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
}

var castlingLayout = map[CastlingRights]castleSquares{
	WhiteKingSideCastle:  {E1, G1, H1, F1},
	WhiteQueenSideCastle: {E1, C1, A1, D1},
	BlackKingSideCastle:  {E8, G8, H8, F8},
	BlackQueenSideCastle: {E8, C8, A8, D8},
}

// castlingKeep[sq] holds the rights that survive a move touching sq.
var castlingKeep [64]CastlingRights

func init() {
	for sq := range castlingKeep {
		castlingKeep[sq] = AllCastling
	}
	for right, layout := range castlingLayout {
		castlingKeep[layout.kingFrom] &^= right
		castlingKeep[layout.rookFrom] &^= right
	}
}

// DebugMoveValidation enables consistency checks of the redundant board
// views after every make and undo. Mismatches are logged.
var DebugMoveValidation = false

// Board represents a complete chess position together with the history of
// the moves applied to it. A Board is owned by one goroutine at a time.
type Board struct {
	// Piece on every square, NoPiece if empty.
	squares [NumSquares]Piece

	// Bitboard views, always consistent with squares.
	all     Bitboard
	byColor [2]Bitboard
	byType  [6]Bitboard

	// King positions (cached for check detection), NoSquare if absent.
	kingSquare [2]Square

	sideToMove     Color
	castling       CastlingRights
	enPassant      Square // Target square for en passant, NoSquare if none
	halfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	fullMoveNumber int    // Full move counter, starts at 1

	// Zobrist key of the current position
	key uint64

	history []undoRecord
}

// NewBoard creates an empty board with White to move.
func NewBoard() *Board {
	b := &Board{}
	b.Clear()
	return b
}

// Clear resets the board to an empty position and drops the history.
func (b *Board) Clear() {
	*b = Board{
		enPassant:      NoSquare,
		fullMoveNumber: 1,
	}
	for sq := range b.squares {
		b.squares[sq] = NoPiece
	}
	b.kingSquare[White] = NoSquare
	b.kingSquare[Black] = NoSquare
	b.key = b.computeKey()
}

// Copy creates a deep copy of the board, history included.
func (b *Board) Copy() *Board {
	c := *b
	c.history = append([]undoRecord(nil), b.history...)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty or
// off the board.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b.squares[sq]
}

// PieceAtCoords returns the piece at (file, rank), or NoPiece when the
// coordinates are off the board.
func (b *Board) PieceAtCoords(file, rank int) Piece {
	sq, ok := SquareAt(file, rank)
	if !ok {
		return NoPiece
	}
	return b.squares[sq]
}

// PieceAtName returns the piece on the square named in algebraic notation,
// or NoPiece when the name is not a square.
func (b *Board) PieceAtName(name string) Piece {
	sq, err := ParseSquare(name)
	if err != nil {
		return NoPiece
	}
	return b.squares[sq]
}

// SetPiece places a piece on a square, replacing whatever was there.
// NoPiece empties the square. Castling rights whose king or rook no longer
// stands on its home square are dropped. It returns false, changing
// nothing, when sq is off the board.
func (b *Board) SetPiece(sq Square, p Piece) bool {
	if !sq.IsValid() || p > NoPiece {
		return false
	}
	b.removePiece(sq)
	b.putPiece(p, sq)
	b.dropStaleCastling()
	return true
}

// SetPieceAtCoords is SetPiece addressed by (file, rank).
func (b *Board) SetPieceAtCoords(file, rank int, p Piece) bool {
	sq, ok := SquareAt(file, rank)
	if !ok {
		return false
	}
	return b.SetPiece(sq, p)
}

// SetPieceAtName is SetPiece addressed by algebraic square name.
func (b *Board) SetPieceAtName(name string, p Piece) bool {
	sq, err := ParseSquare(name)
	if err != nil {
		return false
	}
	return b.SetPiece(sq, p)
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.all&SquareBB(sq) == 0
}

// Pieces returns the bitboard of pieces of one type and color.
func (b *Board) Pieces(c Color, pt PieceType) Bitboard {
	return b.byColor[c] & b.byType[pt]
}

// Occupied returns all occupied squares.
func (b *Board) Occupied() Bitboard {
	return b.all
}

// ColorOccupied returns the squares occupied by one side.
func (b *Board) ColorOccupied(c Color) Bitboard {
	return b.byColor[c]
}

// TypeOccupied returns the squares occupied by one piece type of either color.
func (b *Board) TypeOccupied(pt PieceType) Bitboard {
	return b.byType[pt]
}

// KingSquare returns the cached king square of a side, NoSquare if it has no king.
func (b *Board) KingSquare(c Color) Square {
	return b.kingSquare[c]
}

// SideToMove returns the side whose turn it is.
func (b *Board) SideToMove() Color {
	return b.sideToMove
}

// CastlingRights returns the remaining castling rights.
func (b *Board) CastlingRights() CastlingRights {
	return b.castling
}

// EnPassant returns the en passant target square, NoSquare if none.
func (b *Board) EnPassant() Square {
	return b.enPassant
}

// HalfMoveClock returns the number of half-moves since the last capture or pawn move.
func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

// FullMoveNumber returns the full-move counter, incremented after Black moves.
func (b *Board) FullMoveNumber() int {
	return b.fullMoveNumber
}

// Squares returns a copy of the piece array indexed by square.
func (b *Board) Squares() [NumSquares]Piece {
	return b.squares
}

// Equal reports whether two boards hold the same position: pieces, side to
// move, castling rights, en passant target and both counters. History is
// not compared.
func (b *Board) Equal(o *Board) bool {
	return b.squares == o.squares &&
		b.sideToMove == o.sideToMove &&
		b.castling == o.castling &&
		b.enPassant == o.enPassant &&
		b.halfMoveClock == o.halfMoveClock &&
		b.fullMoveNumber == o.fullMoveNumber
}

// putPiece places a piece on an empty square.
func (b *Board) putPiece(p Piece, sq Square) {
	if p == NoPiece {
		return
	}
	c := p.Color()
	pt := p.Type()
	bb := SquareBB(sq)

	b.squares[sq] = p
	b.byType[pt] |= bb
	b.byColor[c] |= bb
	b.all |= bb
	b.key ^= zobristPiece[p][sq]

	if pt == King {
		b.kingSquare[c] = b.Pieces(c, King).LSB()
	}
}

// removePiece empties a square and returns what stood on it.
func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	c := p.Color()
	pt := p.Type()
	bb := SquareBB(sq)

	b.squares[sq] = NoPiece
	b.byType[pt] &^= bb
	b.byColor[c] &^= bb
	b.all &^= bb
	b.key ^= zobristPiece[p][sq]

	if pt == King {
		b.kingSquare[c] = b.Pieces(c, King).LSB()
	}
	return p
}

// movePiece moves a piece from one square to an empty square.
func (b *Board) movePiece(from, to Square) {
	b.putPiece(b.removePiece(from), to)
}

// setCastling replaces the castling rights, keeping the key in step.
func (b *Board) setCastling(cr CastlingRights) {
	b.key ^= zobristCastling[b.castling] ^ zobristCastling[cr]
	b.castling = cr
}

// setEnPassant replaces the en passant target, keeping the key in step.
func (b *Board) setEnPassant(sq Square) {
	if b.enPassant != NoSquare {
		b.key ^= zobristEnPassant[b.enPassant.File()]
	}
	b.enPassant = sq
	if sq != NoSquare {
		b.key ^= zobristEnPassant[sq.File()]
	}
}

func (b *Board) toggleSide() {
	b.sideToMove = b.sideToMove.Other()
	b.key ^= zobristSideToMove
}

// castlingAllowedBy returns the rights whose king and rook stand on their
// home squares.
func (b *Board) castlingAllowedBy() CastlingRights {
	var cr CastlingRights
	for right, layout := range castlingLayout {
		c := White
		if right&(BlackKingSideCastle|BlackQueenSideCastle) != 0 {
			c = Black
		}
		if b.squares[layout.kingFrom] == NewPiece(King, c) &&
			b.squares[layout.rookFrom] == NewPiece(Rook, c) {
			cr |= right
		}
	}
	return cr
}

func (b *Board) dropStaleCastling() {
	if cr := b.castling & b.castlingAllowedBy(); cr != b.castling {
		b.setCastling(cr)
	}
}

// validate checks that the bitboard views, the king cache and the key agree
// with the piece array.
func (b *Board) validate() error {
	var all Bitboard
	var byColor [2]Bitboard
	var byType [6]Bitboard
	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		bb := SquareBB(sq)
		all |= bb
		byColor[p.Color()] |= bb
		byType[p.Type()] |= bb
	}
	if all != b.all || byColor != b.byColor || byType != b.byType {
		return fmt.Errorf("bitboards out of sync with piece array")
	}
	for c := White; c <= Black; c++ {
		if want := b.Pieces(c, King).LSB(); b.kingSquare[c] != want {
			return fmt.Errorf("%v king cached on %v, bitboard says %v", c, b.kingSquare[c], want)
		}
	}
	if key := b.computeKey(); key != b.key {
		return fmt.Errorf("key %016x, recomputed %016x", b.key, key)
	}
	return nil
}

func (b *Board) debugValidate(op string, m Move) {
	if err := b.validate(); err != nil {
		log.Printf("%s %v: %v", op, m, err)
	}
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullMoveNumber)
	fmt.Fprintf(&sb, "Key: %016x\n", b.key)
	return sb.String()
}
