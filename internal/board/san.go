package board

import (
	"fmt"
	"strings"
)

// EncodeSAN converts a move to Standard Algebraic Notation.
//
// The list must be the one the move was generated in: the moving piece, the
// capture flag and the disambiguation all come from it. A move that is not
// in the list, or was added without piece information, is rendered in the
// long format instead. No check or mate suffix is written.
func EncodeSAN(m Move, ml *MoveList) string {
	i := ml.Index(m)
	if i < 0 || ml.PieceType(i) == NoPieceType {
		return m.String()
	}

	if m.IsCastling() {
		if m.To().File() > m.From().File() {
			return "O-O"
		}
		return "O-O-O"
	}

	from := m.From()
	pt := ml.PieceType(i)
	capture := ml.IsCapture(i)

	var sb strings.Builder
	switch pt {
	case Pawn:
		if capture {
			sb.WriteByte('a' + byte(from.File()))
		}
	case King:
		sb.WriteByte(pt.Letter())
	default:
		sb.WriteByte(pt.Letter())
		sb.WriteString(disambiguation(m, pt, ml))
	}

	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To().String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion().Letter())
	}
	return sb.String()
}

// disambiguation returns the shortest origin token that tells m apart from
// the other moves of the same piece type to the same square: the file when
// it is unique among them, else the rank when that is, else both.
func disambiguation(m Move, pt PieceType, ml *MoveList) string {
	from := m.From()
	to := m.To()

	others, sameFile, sameRank := 0, false, false
	for i := 0; i < ml.Len(); i++ {
		o := ml.Get(i)
		if o.To() != to || o.From() == from || ml.PieceType(i) != pt {
			continue
		}
		others++
		if o.From().File() == from.File() {
			sameFile = true
		}
		if o.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case others == 0:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// sanMove is the parsed form of SAN text before it is matched to a move.
type sanMove struct {
	piece     PieceType
	fromFile  int // -1 if not given
	fromRank  int // -1 if not given
	capture   bool
	to        Square
	promotion PieceType
	castle    int // 0 none, 1 king side, 2 queen side
}

// parseSAN splits SAN text into its parts. Trailing check, mate and
// annotation marks are ignored, and castling may be written with zeros.
func parseSAN(text string) (sanMove, error) {
	s := strings.TrimRight(text, "+#!?")
	sm := sanMove{piece: Pawn, fromFile: -1, fromRank: -1, to: NoSquare, promotion: NoPieceType}

	switch s {
	case "O-O", "0-0":
		sm.castle = 1
		return sm, nil
	case "O-O-O", "0-0-0":
		sm.castle = 2
		return sm, nil
	}

	bad := func(why string) (sanMove, error) {
		return sanMove{}, fmt.Errorf("%w: %q: %s", ErrInvalidSAN, text, why)
	}

	if s == "" {
		return bad("empty")
	}

	if pt := PieceTypeFromLetter(s[0]); pt != NoPieceType && pt != Pawn {
		sm.piece = pt
		s = s[1:]
	}

	// Promotion suffix, with or without '='.
	if n := len(s); n >= 2 {
		if pt := PieceTypeFromLetter(s[n-1]); pt >= Knight && pt <= Queen {
			sm.promotion = pt
			s = strings.TrimSuffix(s[:n-1], "=")
		}
	}

	if len(s) < 2 {
		return bad("missing destination")
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return bad("bad destination")
	}
	sm.to = to
	s = s[:len(s)-2]

	if strings.HasSuffix(s, "x") {
		sm.capture = true
		s = s[:len(s)-1]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'h' && sm.fromFile < 0 && sm.fromRank < 0:
			sm.fromFile = int(c - 'a')
		case c >= '1' && c <= '8' && sm.fromRank < 0:
			sm.fromRank = int(c - '1')
		default:
			return bad(fmt.Sprintf("unexpected %q", c))
		}
	}

	if sm.promotion != NoPieceType && sm.piece != Pawn {
		return bad("only pawns promote")
	}
	return sm, nil
}

// matches reports whether entry i of ml is the move sm describes.
func (sm sanMove) matches(ml *MoveList, i int) bool {
	m := ml.Get(i)
	if sm.castle != 0 {
		if !m.IsCastling() {
			return false
		}
		return (m.To().File() > m.From().File()) == (sm.castle == 1)
	}

	if m.IsCastling() || m.To() != sm.to || ml.PieceType(i) != sm.piece {
		return false
	}
	if sm.fromFile >= 0 && m.From().File() != sm.fromFile {
		return false
	}
	if sm.fromRank >= 0 && m.From().Rank() != sm.fromRank {
		return false
	}
	if sm.capture && !ml.IsCapture(i) {
		return false
	}
	if sm.piece == Pawn && !sm.capture && ml.IsCapture(i) {
		return false
	}
	if m.IsPromotion() {
		return sm.promotion == m.Promotion()
	}
	return sm.promotion == NoPieceType
}

// DecodeSAN resolves SAN text against a generated list. It fails with
// ErrInvalidSAN when the text does not parse, ErrNoMatchingMove when no
// entry fits and ErrAmbiguousMove when more than one does.
func DecodeSAN(text string, ml *MoveList) (Move, error) {
	sm, err := parseSAN(text)
	if err != nil {
		return NoMove, err
	}

	found := NoMove
	n := 0
	for i := 0; i < ml.Len(); i++ {
		if sm.matches(ml, i) {
			found = ml.Get(i)
			n++
		}
	}

	switch n {
	case 0:
		return NoMove, fmt.Errorf("%w: %q", ErrNoMatchingMove, text)
	case 1:
		return found, nil
	}
	return NoMove, fmt.Errorf("%w: %q matches %d moves", ErrAmbiguousMove, text, n)
}

// MovesToSAN plays a sequence of moves on a copy of b and returns their SAN.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	c := b.Copy()

	for i, m := range moves {
		result[i] = EncodeSAN(m, GenerateMoves(c))
		c.MakeMove(m)
	}
	return result
}
