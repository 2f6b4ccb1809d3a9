package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateGuess(t *testing.T) {
	tests := []struct {
		name    string
		guess   Guess
		wantErr error
	}{
		{"valid", Guess{0, 9, 5, 2}, nil},
		{"repeated digit", Guess{1, 2, 2, 3}, ErrDigitRepeated},
		{"negative digit", Guess{-1, 2, 3, 4}, ErrDigitOutOfRange},
		{"digit above nine", Guess{1, 2, 3, 10}, ErrDigitOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGuess(tt.guess)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePlayerCount(t *testing.T) {
	for _, n := range []int{1, 5, 10} {
		if err := ValidatePlayerCount(n); err != nil {
			t.Errorf("Expected %d players to be valid, got %v", n, err)
		}
	}
	for _, n := range []int{0, -1, 11, 100} {
		if err := ValidatePlayerCount(n); err == nil {
			t.Errorf("Expected %d players to be rejected", n)
		}
	}
}

func TestValidateNames(t *testing.T) {
	if err := ValidateGameName("alpha"); err != nil {
		t.Errorf("Expected 'alpha' to be a valid game name, got %v", err)
	}
	if err := ValidateGameName(""); err == nil {
		t.Error("Expected empty game name to be rejected")
	}
	if err := ValidateGameName(strings.Repeat("x", MaxGameNameLen+1)); err == nil {
		t.Error("Expected oversized game name to be rejected")
	}
	if err := ValidatePlayerName(strings.Repeat("x", MaxPlayerNameLen+1)); err == nil {
		t.Error("Expected oversized player name to be rejected")
	}
}

func TestGameStateTransitions(t *testing.T) {
	g := NewGame("alpha", "Ann", 2)

	if g.State() != Forming {
		t.Errorf("Expected new game to be forming, got %s", g.State())
	}
	if len(g.Players) != 1 || g.Players[0].Name != "Ann" {
		t.Fatalf("Expected creator as sole player, got %+v", g.Players)
	}

	g.AddPlayer("Bob")
	if g.State() != Full {
		t.Errorf("Expected full game, got %s", g.State())
	}

	g.Finish("Bob")
	if g.State() != Finished || g.Winner != "Bob" {
		t.Errorf("Expected finished game won by Bob, got %s/%s", g.State(), g.Winner)
	}

	// Terminal: a second finish must not steal the win.
	g.Finish("Ann")
	if g.Winner != "Bob" {
		t.Errorf("Expected winner to remain Bob, got %s", g.Winner)
	}
}
