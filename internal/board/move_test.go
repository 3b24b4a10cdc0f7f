package board

import (
	"errors"
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		from Square
		to   Square
	}{
		{"a1a2", A1, A2},
		{"h7g8", H7, G8},
		{"e2d3", E2, NewSquare(3, 2)},
	}
	for _, tc := range tests {
		m, err := ParseMove(tc.in)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.in, err)
		}
		if m.From() != tc.from || m.To() != tc.to {
			t.Errorf("ParseMove(%q) = %s-%s, want %s-%s", tc.in, m.From(), m.To(), tc.from, tc.to)
		}
		if m.String() != tc.in {
			t.Errorf("String() = %q, want %q", m.String(), tc.in)
		}
	}
}

func TestParseMoveRejects(t *testing.T) {
	for _, s := range []string{"", "e2e", "e2e3q", "i2e3", "e0e3", "e2e9", "E2E3", "e2-3"} {
		if _, err := ParseMove(s); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) err = %v, want ErrInvalidMove", s, err)
		}
	}
}

func TestSquareString(t *testing.T) {
	if A1.String() != "a1" || H8.String() != "h8" || NoSquare.String() != "-" {
		t.Errorf("unexpected square names %s %s %s", A1, H8, NoSquare)
	}
	sq, err := ParseSquare("c6")
	if err != nil || sq.File() != 2 || sq.Rank() != 5 {
		t.Errorf("ParseSquare(c6) = %v, %v", sq, err)
	}
	if _, err := ParseSquare("z9"); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("ParseSquare(z9) err = %v", err)
	}
}

func TestNoMoveString(t *testing.T) {
	if NoMove.String() != "0000" {
		t.Errorf("NoMove.String() = %q", NoMove.String())
	}
}
