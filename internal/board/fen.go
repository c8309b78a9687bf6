package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// maxFullMove keeps the full-move number, and the half-move count derived
// from it, well inside an int.
const maxFullMove = 1 << 30

// NewStartBoard returns a board set up in the standard starting position.
func NewStartBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseFEN parses a FEN string into a new board.
//
// The text must hold exactly six fields separated by single spaces. Every
// field is checked strictly, and castling rights and the en passant target
// must agree with the piece placement. Errors are *FENError values naming
// the rejected field; they match ErrInvalidFEN with errors.Is.
func ParseFEN(text string) (*Board, error) {
	if text == "" {
		return nil, fenError("fields", "", "empty string")
	}
	fields := strings.Split(text, " ")
	if len(fields) != 6 {
		return nil, fenError("fields", text, "need 6 fields separated by single spaces, got %d", len(fields))
	}

	b := NewBoard()

	if err := parsePlacement(b, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fenError("side", fields[1], "want w or b")
	}

	cr, err := parseCastling(b, fields[2])
	if err != nil {
		return nil, err
	}
	b.castling = cr

	ep, err := parseEnPassant(b, fields[3])
	if err != nil {
		return nil, err
	}
	b.enPassant = ep

	hmc, err := parseCounter("halfmove", fields[4], 0)
	if err != nil {
		return nil, err
	}
	b.halfMoveClock = hmc

	fmn, err := parseCounter("fullmove", fields[5], 1)
	if err != nil {
		return nil, err
	}
	b.fullMoveNumber = fmn

	b.key = b.computeKey()
	return b, nil
}

// parsePlacement fills b from the piece placement field.
func parsePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return fenError("placement", placement, "need %d ranks, got %d", Size, len(ranks))
	}

	for i, text := range ranks {
		rank := Size - 1 - i // FEN starts from rank 8
		file := 0
		lastDigit := false

		for j := 0; j < len(text); j++ {
			c := text[j]
			switch {
			case c >= '1' && c <= '8':
				if lastDigit {
					return fenError("placement", text, "consecutive digits in rank %d", rank+1)
				}
				lastDigit = true
				file += int(c - '0')
			default:
				lastDigit = false
				p := PieceFromChar(c)
				if p == NoPiece {
					return fenError("placement", text, "invalid piece character %q", c)
				}
				if file < Size {
					b.putPiece(p, NewSquare(file, rank))
				}
				file++
			}
			if file > Size {
				return fenError("placement", text, "rank %d overruns the board", rank+1)
			}
		}

		if file != Size {
			return fenError("placement", text, "rank %d covers %d squares, want %d", rank+1, file, Size)
		}
	}
	return nil
}

// parseCastling reads the castling field. Letters may come in any order but
// not twice, and each needs its king and rook on their home squares.
func parseCastling(b *Board, text string) (CastlingRights, error) {
	if text == "-" {
		return NoCastling, nil
	}
	if text == "" {
		return NoCastling, fenError("castling", text, "empty field")
	}

	allowed := b.castlingAllowedBy()
	var cr CastlingRights
	for i := 0; i < len(text); i++ {
		var right CastlingRights
		switch text[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return NoCastling, fenError("castling", text, "invalid character %q", text[i])
		}
		if cr&right != 0 {
			return NoCastling, fenError("castling", text, "%q given twice", text[i])
		}
		if allowed&right == 0 {
			return NoCastling, fenError("castling", text, "%q needs king and rook on their home squares", text[i])
		}
		cr |= right
	}
	return cr, nil
}

// parseEnPassant reads the en passant field. The target lies on the square
// the last double push passed over, so it sits on the sixth rank with White
// to move (the third with Black), is empty, and has the enemy pawn beyond it.
func parseEnPassant(b *Board, text string) (Square, error) {
	if text == "-" {
		return NoSquare, nil
	}
	sq, err := ParseSquare(text)
	if err != nil {
		return NoSquare, fenError("en passant", text, "not a square")
	}

	us := b.sideToMove
	them := us.Other()
	if sq.RelativeRank(us) != 5 {
		want := 6
		if us == Black {
			want = 3
		}
		return NoSquare, fenError("en passant", text, "target must be on rank %d with %v to move", want, us)
	}
	if !b.IsEmpty(sq) {
		return NoSquare, fenError("en passant", text, "target square is occupied")
	}
	if b.squares[enPassantVictim(sq, us)] != NewPiece(Pawn, them) {
		return NoSquare, fenError("en passant", text, "no %v pawn beyond the target", them)
	}
	return sq, nil
}

// parseCounter reads a decimal counter that has a lower bound. Leading
// zeros are rejected.
func parseCounter(field, text string, least int) (int, error) {
	if text == "" {
		return 0, fenError(field, text, "empty field")
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, fenError(field, text, "not a decimal number")
		}
	}
	if len(text) > 1 && text[0] == '0' {
		return 0, fenError(field, text, "leading zero")
	}
	n, err := strconv.Atoi(text)
	if err != nil || n > maxFullMove {
		return 0, fenError(field, text, "out of range")
	}
	if n < least {
		return 0, fenError(field, text, "must be at least %d", least)
	}
	return n, nil
}

// FEN returns the FEN representation of the board.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := Size - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < Size; file++ {
			piece := b.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())

	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMoveNumber))

	return sb.String()
}
