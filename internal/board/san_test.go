package board

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/davidot/ActionsTest-sub000/internal/testutil"
)

func sanOf(t *testing.T, fen, long string) string {
	t.Helper()
	b, err := ParseFEN(fen)
	testutil.AssertNoError(t, err, fen)
	ml := GenerateMoves(b)
	m, err := ParseLongMove(long, ml)
	testutil.AssertNoError(t, err, long)
	return EncodeSAN(m, ml)
}

func TestEncodeSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		long string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
		{"en passant", "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3", "e5d6", "exd6"},
		{"promotion", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8q", "a8=Q"},
		{"under promotion capture", "1n5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7b8n", "axb8=N"},
		{"king side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"king capture", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", "e1d2", "Kxd2"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1d1", "Rad1"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"square disambiguation", "2k5/8/8/8/4Q2Q/8/8/K6Q w - - 0 1", "h4e1", "Qh4e1"},
		{"no rival", "4k3/8/8/8/8/2N5/8/K3N3 w - - 0 1", "c3d5", "Nd5"},
		{"knights on one file", "7k/2N5/8/8/8/2N5/8/K7 w - - 0 1", "c3d5", "N3d5"},
		{"two knights", "4k3/8/8/8/8/2N1N3/8/K7 w - - 0 1", "c3d5", "Ncd5"},
		{"pinned twin needs none", "4k3/4r3/8/1N6/8/8/4N3/4K3 w - - 0 1", "b5d4", "Nd4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertEqual(t, sanOf(t, tc.fen, tc.long), tc.want)
		})
	}
}

func TestEncodeSANNotInList(t *testing.T) {
	ml := GenerateMoves(NewStartBoard())
	testutil.AssertEqual(t, EncodeSAN(NewMove(E2, E5), ml), "e2e5")

	var bare MoveList
	bare.Add(NewMove(G1, F3))
	testutil.AssertEqual(t, EncodeSAN(NewMove(G1, F3), &bare), "g1f3")
}

func TestDecodeSAN(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	testutil.AssertNoError(t, err)
	ml := GenerateMoves(b)

	tests := []struct {
		text string
		want Move
	}{
		{"O-O", NewCastling(E1, G1)},
		{"0-0-0", NewCastling(E1, C1)},
		{"Qxf6", NewMove(F3, F6)},
		{"Qxf6+!", NewMove(F3, F6)},
		{"Nxg6", NewMove(E5, G6)},
		{"dxe6", NewMove(D5, E6)},
		{"d6", NewMove(D5, D6)},
		{"Bxa6", NewMove(E2, A6)},
		{"Rb1", NewMove(A1, B1)},
		{"a4", NewDoublePush(A2, A4)},
		{"gxh3", NewMove(G2, H3)},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, err := DecodeSAN(tc.text, ml)
			testutil.AssertNoError(t, err, tc.text)
			testutil.AssertEqual(t, got, tc.want, tc.text)
		})
	}
}

func TestDecodeSANErrors(t *testing.T) {
	b, err := ParseFEN("4k3/8/8/8/8/2N1N3/8/K7 w - - 0 1")
	testutil.AssertNoError(t, err)
	ml := GenerateMoves(b)

	tests := []struct {
		text string
		want error
	}{
		{"", ErrInvalidSAN},
		{"Z", ErrInvalidSAN},
		{"Nz9", ErrInvalidSAN},
		{"Nd5=Q", ErrInvalidSAN},
		{"N1cd5", ErrInvalidSAN},
		{"Nd5", ErrAmbiguousMove},
		{"Nxd5", ErrNoMatchingMove},
		{"Nh8", ErrNoMatchingMove},
		{"O-O", ErrNoMatchingMove},
		{"e4", ErrNoMatchingMove},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			m, err := DecodeSAN(tc.text, ml)
			testutil.AssertErrorIs(t, err, tc.want, tc.text)
			testutil.AssertEqual(t, m, NoMove, tc.text)
		})
	}
}

func TestDecodeSANPromotionRequiresPiece(t *testing.T) {
	b, err := ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	testutil.AssertNoError(t, err)
	ml := GenerateMoves(b)

	_, err = DecodeSAN("a8", ml)
	testutil.AssertErrorIs(t, err, ErrNoMatchingMove)

	m, err := DecodeSAN("a8=R", ml)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m, NewPromotion(A7, A8, Rook))

	m, err = DecodeSAN("a8N", ml)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m, NewPromotion(A7, A8, Knight))
}

// TestSANRoundTrip checks decode(encode(m)) == m for every legal move along
// random games, and that the disambiguation written is the shortest that
// identifies the move.
func TestSANRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for game := 0; game < 40; game++ {
		b := NewStartBoard()
		for ply := 0; ply < 150; ply++ {
			ml := GenerateMoves(b)
			if ml.Len() == 0 {
				break
			}
			for i := 0; i < ml.Len(); i++ {
				m := ml.Get(i)
				text := EncodeSAN(m, ml)
				got, err := DecodeSAN(text, ml)
				if err != nil || got != m {
					t.Fatalf("%s: %v encodes as %q, decodes as %v (%v)", b.FEN(), m, text, got, err)
				}
				assertMinimal(t, b, ml, i, text)
			}
			b.MakeMove(ml.Get(rng.Intn(ml.Len())))
		}
	}
}

// assertMinimal fails if a shorter origin token would still pick out move i.
func assertMinimal(t *testing.T, b *Board, ml *MoveList, i int, text string) {
	t.Helper()
	pt := ml.PieceType(i)
	if pt == Pawn || pt == King || ml.Get(i).IsCastling() {
		return
	}
	m := ml.Get(i)
	token := disambiguation(m, pt, ml)
	if len(token) == 0 {
		return
	}

	capture := ""
	if ml.IsCapture(i) {
		capture = "x"
	}
	from := m.From().String()
	var shorter []string
	switch len(token) {
	case 1:
		shorter = []string{""}
	case 2:
		shorter = []string{"", from[:1], from[1:]}
	}
	for _, s := range shorter {
		candidate := string(pt.Letter()) + s + capture + m.To().String()
		if got, err := DecodeSAN(candidate, ml); err == nil && got == m {
			t.Errorf("%s: %q is longer than needed, %q also names %v", b.FEN(), text, candidate, m)
		}
	}
	if !strings.Contains(text, token) {
		t.Errorf("%q does not carry disambiguation %q", text, token)
	}
}

func TestMovesToSAN(t *testing.T) {
	b := NewStartBoard()
	moves := []Move{NewDoublePush(E2, E4), NewDoublePush(E7, E5), NewMove(G1, F3), NewMove(B8, C6), NewMove(F1, B5)}
	testutil.AssertEqual(t, MovesToSAN(b, moves), []string{"e4", "e5", "Nf3", "Nc6", "Bb5"})
	testutil.AssertEqual(t, b.FEN(), StartFEN)
}
