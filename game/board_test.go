package game

import (
	"testing"
)

func TestDetectOutcome_EmptyBoard(t *testing.T) {
	var board [BoardSize]Cell
	if got := DetectOutcome(board); got != Empty {
		t.Errorf("Expected Empty for a fresh board, got %v", got)
	}
}

func TestDetectOutcome_AllLines(t *testing.T) {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}

	for _, symbol := range []Cell{X, O} {
		for _, line := range lines {
			var board [BoardSize]Cell
			for _, i := range line {
				board[i] = symbol
			}
			if got := DetectOutcome(board); got != symbol {
				t.Errorf("Line %v filled with %v: expected %v, got %v", line, symbol, symbol, got)
			}
		}
	}
}

func TestDetectOutcome_FullBoardNoWinner(t *testing.T) {
	// X O X / X O O / O X X - no three in a row anywhere.
	board := [BoardSize]Cell{X, O, X, X, O, O, O, X, X}
	if got := DetectOutcome(board); got != Empty {
		t.Errorf("Expected Empty for a drawn board, got %v", got)
	}
	if !boardFull(board) {
		t.Error("Expected the board to be full")
	}
}

func TestDetectOutcome_MixedLineIsNotAWin(t *testing.T) {
	board := [BoardSize]Cell{X, X, O}
	if got := DetectOutcome(board); got != Empty {
		t.Errorf("Expected Empty for a mixed row, got %v", got)
	}
}

func TestDetectOutcome_MalformedBoardFirstLineWins(t *testing.T) {
	// Two full lines at once cannot happen in a legal game; the enumeration
	// order decides: rows before columns before diagonals.
	doubleWin := [BoardSize]Cell{
		X, X, X,
		Empty, Empty, Empty,
		O, O, O,
	}
	if got := DetectOutcome(doubleWin); got != X {
		t.Errorf("Expected the first row in enumeration order to win, got %v", got)
	}

	columnBeatsDiagonal := [BoardSize]Cell{
		O, X, X,
		O, X, Empty,
		O, Empty, X,
	}
	// Column 0 is O-O-O and the diagonal 0-4-8 is not uniform; only the
	// column should be reported.
	if got := DetectOutcome(columnBeatsDiagonal); got != O {
		t.Errorf("Expected O via column 0, got %v", got)
	}
}

func TestOpponent(t *testing.T) {
	if opponent(X) != O || opponent(O) != X {
		t.Error("opponent should map X to O and O to X")
	}
}
