package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// It is the standard way to verify move generation against published counts.
func Perft(b *Board, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := GenerateMoves(b)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		b.MakeMove(moves.Get(i))
		nodes += Perft(b, depth-1)
		b.UndoMove()
	}
	return nodes
}

// Divide runs Perft below each legal move and returns the counts keyed by
// the move's long format.
func Divide(b *Board, depth int) map[string]int64 {
	moves := GenerateMoves(b)
	out := make(map[string]int64, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		out[m.String()] = MoveExcursion(b, m, func(b *Board) int64 {
			return Perft(b, depth-1)
		})
	}
	return out
}
