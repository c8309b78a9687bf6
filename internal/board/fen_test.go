package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/davidot/ActionsTest-sub000/internal/testutil"
)

func TestParseFENStart(t *testing.T) {
	b, err := ParseFEN(StartFEN)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, b.PieceAt(E1), WhiteKing)
	testutil.AssertEqual(t, b.PieceAt(D8), BlackQueen)
	testutil.AssertEqual(t, b.PieceAtName("a2"), WhitePawn)
	testutil.AssertEqual(t, b.PieceAtCoords(7, 7), BlackRook)
	testutil.AssertEqual(t, b.SideToMove(), White)
	testutil.AssertEqual(t, b.CastlingRights(), AllCastling)
	testutil.AssertEqual(t, b.EnPassant(), NoSquare)
	testutil.AssertEqual(t, b.HalfMoveClock(), 0)
	testutil.AssertEqual(t, b.FullMoveNumber(), 1)
	testutil.AssertEqual(t, b.KingSquare(White), E1)
	testutil.AssertEqual(t, b.KingSquare(Black), E8)
	testutil.AssertEqual(t, b.Occupied().PopCount(), 32)
	testutil.AssertEqual(t, b.FEN(), StartFEN)
}

func TestParseFENFields(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b Kq c6 1 2")
	if !errors.Is(err, ErrInvalidFEN) {
		t.Fatalf("en passant on the wrong side accepted: %v", err)
	}

	b, err = ParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b Kq - 1 2")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, b.SideToMove(), Black)
	testutil.AssertEqual(t, b.CastlingRights(), WhiteKingSideCastle|BlackQueenSideCastle)
	testutil.AssertEqual(t, b.HalfMoveClock(), 1)
	testutil.AssertEqual(t, b.FullMoveNumber(), 2)

	b, err = ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w qkQK d6 0 3")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, b.EnPassant(), D6)
	testutil.AssertEqual(t, b.CastlingRights(), AllCastling)
	testutil.AssertEqual(t, b.FEN(), "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
}

func TestParseFENRejects(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		field string
	}{
		{"empty", "", "fields"},
		{"nine ranks", "8/8/8/8/8/8/8/8/1", "fields"},
		{"bad run length", "9/8/8/8/8/8/8/8", "fields"},
		{"letter overrun", "p8/8/8/8/8/8/8/8", "fields"},
		{"nine ranks full", "8/8/8/8/8/8/8/8/1 w - - 0 1", "placement"},
		{"bad run length full", "9/8/8/8/8/8/8/8 w - - 0 1", "placement"},
		{"letter overrun full", "p8/8/8/8/8/8/8/8 w - - 0 1", "placement"},
		{"short rank", "7/8/8/8/8/8/8/8 w - - 0 1", "placement"},
		{"consecutive digits", "44/8/8/8/8/8/8/8 w - - 0 1", "placement"},
		{"bad piece", "x7/8/8/8/8/8/8/8 w - - 0 1", "placement"},
		{"five fields", "8/8/8/8/8/8/8/8 w - - 0", "fields"},
		{"double space", "8/8/8/8/8/8/8/8  w - - 0 1", "fields"},
		{"side", "8/8/8/8/8/8/8/8 x - - 0 1", "side"},
		{"castling letter", "r3k2r/8/8/8/8/8/8/R3K2R w KX - 0 1", "castling"},
		{"castling twice", "r3k2r/8/8/8/8/8/8/R3K2R w KK - 0 1", "castling"},
		{"castling without rook", "r3k3/8/8/8/8/8/8/R3K2R w k - 0 1", "castling"},
		{"castling without king", "r3k2r/8/8/8/8/8/8/R4K1R w Q - 0 1", "castling"},
		{"en passant not a square", "8/8/8/8/8/8/8/8 w - z9 0 1", "en passant"},
		{"en passant rank", "4k3/8/8/3pP3/8/8/8/4K3 w - d5 0 1", "en passant"},
		{"en passant occupied", "4k3/8/3n4/3pP3/8/8/8/4K3 w - d6 0 1", "en passant"},
		{"en passant no pawn", "4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1", "en passant"},
		{"halfmove leading zero", "8/8/8/8/8/8/8/8 w - - 01 1", "halfmove"},
		{"halfmove negative", "8/8/8/8/8/8/8/8 w - - -1 1", "halfmove"},
		{"fullmove zero", "8/8/8/8/8/8/8/8 w - - 0 0", "fullmove"},
		{"fullmove leading zero", "8/8/8/8/8/8/8/8 w - - 0 01", "fullmove"},
		{"fullmove overflow", "8/8/8/8/8/8/8/8 w - - 0 99999999999999999999", "fullmove"},
		{"fullmove too large", "8/8/8/8/8/8/8/8 w - - 0 2000000000", "fullmove"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if b != nil {
				t.Errorf("ParseFEN(%q) returned a board", tc.fen)
			}
			testutil.AssertErrorIs(t, err, ErrInvalidFEN, tc.fen)

			var fe *FENError
			if !errors.As(err, &fe) {
				t.Fatalf("ParseFEN(%q) error %T is not a *FENError", tc.fen, err)
			}
			testutil.AssertEqual(t, fe.Field, tc.field, tc.fen)
		})
	}
}

func TestParseFENEmptyBoard(t *testing.T) {
	b, err := ParseFEN("8/8/8/8/8/8/8/8 w - - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, b.Occupied(), Empty)
	testutil.AssertEqual(t, b.KingSquare(White), NoSquare)
	testutil.AssertEqual(t, GenerateMoves(b).Len(), 0)
}

// playRandom plays n random legal moves from the start position, stopping
// early if the game ends.
func playRandom(rng *rand.Rand, n int) *Board {
	b := NewStartBoard()
	for i := 0; i < n; i++ {
		ml := GenerateMoves(b)
		if ml.Len() == 0 {
			break
		}
		b.MakeMove(ml.Get(rng.Intn(ml.Len())))
	}
	return b
}

func assertRoundTrip(t testing.TB, b *Board) {
	t.Helper()
	fen := b.FEN()
	got, err := ParseFEN(fen)
	testutil.AssertNoError(t, err, fen)
	if !got.Equal(b) {
		t.Errorf("round trip of %s changed the board\nbefore:%v\nafter:%v", fen, b, got)
	}
	testutil.AssertEqual(t, got.Squares(), b.Squares(), fen)
	testutil.AssertEqual(t, got.Key(), b.Key(), fen)
	testutil.AssertEqual(t, got.FEN(), fen)
}

func TestFENRoundTripRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 50; game++ {
		b := NewStartBoard()
		for ply := 0; ply < 120; ply++ {
			assertRoundTrip(t, b)
			ml := GenerateMoves(b)
			if ml.Len() == 0 {
				break
			}
			b.MakeMove(ml.Get(rng.Intn(ml.Len())))
		}
	}
}

func FuzzFENRoundTrip(f *testing.F) {
	f.Add(int64(1), uint8(10))
	f.Add(int64(42), uint8(80))
	f.Add(int64(-3), uint8(200))

	f.Fuzz(func(t *testing.T, seed int64, plies uint8) {
		b := playRandom(rand.New(rand.NewSource(seed)), int(plies))
		assertRoundTrip(t, b)
	})
}

func FuzzParseFEN(f *testing.F) {
	f.Add(StartFEN)
	f.Add("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	f.Add("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	f.Add("p8/8/8/8/8/8/8/8")

	f.Fuzz(func(t *testing.T, text string) {
		b, err := ParseFEN(text)
		if err != nil {
			if b != nil {
				t.Fatalf("ParseFEN(%q) returned a board with error %v", text, err)
			}
			if !errors.Is(err, ErrInvalidFEN) {
				t.Fatalf("ParseFEN(%q) error %v does not wrap ErrInvalidFEN", text, err)
			}
			return
		}
		if err := b.validate(); err != nil {
			t.Fatalf("ParseFEN(%q) built an inconsistent board: %v", text, err)
		}
		again, err := ParseFEN(b.FEN())
		if err != nil {
			t.Fatalf("FEN %q of accepted %q does not parse: %v", b.FEN(), text, err)
		}
		if !again.Equal(b) {
			t.Fatalf("FEN %q does not reproduce %q", b.FEN(), text)
		}
		GenerateMoves(b)
	})
}
