package lcd

import (
	"strconv"
	"strings"
)

// FakeScreen is a test double that renders into an in-memory character grid
// and records every operation so tests can assert on display traffic.
type FakeScreen struct {
	// Ops records each call in order: "clear", "cursor C,R", "write TEXT".
	Ops []string

	// WriteError, if set, is returned by every drawing call.
	WriteError error

	grid [Rows][Cols]byte
	col  int
	row  int
}

// NewFakeScreen creates a blank FakeScreen.
func NewFakeScreen() *FakeScreen {
	f := &FakeScreen{}
	f.blank()
	return f
}

func (f *FakeScreen) blank() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			f.grid[r][c] = ' '
		}
	}
	f.col, f.row = 0, 0
}

// Clear blanks the grid and homes the cursor.
func (f *FakeScreen) Clear() error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, "clear")
	f.blank()
	return nil
}

// SetCursor moves the write position.
func (f *FakeScreen) SetCursor(col, row int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, "cursor "+strconv.Itoa(col)+","+strconv.Itoa(row))
	f.col, f.row = col, row
	return nil
}

// Write prints text at the cursor, truncating at the row edge like the
// hardware does.
func (f *FakeScreen) Write(text string) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Ops = append(f.Ops, "write "+text)
	for i := 0; i < len(text); i++ {
		if f.col >= Cols || f.row < 0 || f.row >= Rows {
			break
		}
		f.grid[f.row][f.col] = text[i]
		f.col++
	}
	return nil
}

// Line returns the contents of a row, trailing spaces trimmed.
func (f *FakeScreen) Line(row int) string {
	return strings.TrimRight(string(f.grid[row][:]), " ")
}

// ResetOps clears the recorded operation log (the grid keeps its contents).
func (f *FakeScreen) ResetOps() {
	f.Ops = nil
}
