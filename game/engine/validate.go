package engine

import (
	"errors"
	"fmt"
)

var (
	ErrDigitOutOfRange = errors.New("guess digits must be between 0 and 9")
	ErrDigitRepeated   = errors.New("guess digits must be unique")
)

// ValidateGuess checks that every digit is in 0-9 and that no digit
// repeats. Handlers call this before a guess is counted or scored;
// a malformed guess is never evaluated.
func ValidateGuess(g Guess) error {
	var seen [10]bool
	for _, d := range g {
		if d < 0 || d > 9 {
			return ErrDigitOutOfRange
		}
		if seen[d] {
			return ErrDigitRepeated
		}
		seen[d] = true
	}
	return nil
}

// ValidatePlayerCount checks the max-players setting for a new game.
func ValidatePlayerCount(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("player count must be between %d and %d", MinPlayers, MaxPlayers)
	}
	return nil
}

// ValidateGameName checks that a game name is non-empty and fits the
// wire format's fixed-width field.
func ValidateGameName(name string) error {
	if name == "" {
		return errors.New("game name must not be empty")
	}
	if len(name) > MaxGameNameLen {
		return fmt.Errorf("game name must be at most %d bytes", MaxGameNameLen)
	}
	return nil
}

// ValidatePlayerName checks that a player name is non-empty and fits the
// wire format's fixed-width field.
func ValidatePlayerName(name string) error {
	if name == "" {
		return errors.New("player name must not be empty")
	}
	if len(name) > MaxPlayerNameLen {
		return fmt.Errorf("player name must be at most %d bytes", MaxPlayerNameLen)
	}
	return nil
}
