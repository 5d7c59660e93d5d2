package game

// Cell is one board position. The numeric values are the wire encoding.
type Cell int

const (
	Empty Cell = iota
	X
	O
)

// BoardSize is the number of cells on the grid.
const BoardSize = 9

// winLines lists every three-in-a-row, rows first, then columns, then
// diagonals. DetectOutcome checks them in this order.
var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// DetectOutcome returns the symbol holding a full line, or Empty when no
// line is complete. On a malformed board with more than one full line the
// first line in enumeration order wins.
func DetectOutcome(board [BoardSize]Cell) Cell {
	for _, line := range winLines {
		a, b, c := line[0], line[1], line[2]
		if board[a] != Empty && board[a] == board[b] && board[b] == board[c] {
			return board[a]
		}
	}
	return Empty
}

// boardFull reports whether every cell is occupied.
func boardFull(board [BoardSize]Cell) bool {
	for _, cell := range board {
		if cell == Empty {
			return false
		}
	}
	return true
}

// opponent maps X to O and O to X.
func opponent(symbol Cell) Cell {
	if symbol == X {
		return O
	}
	return X
}
