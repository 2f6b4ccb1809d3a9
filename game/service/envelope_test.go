package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/game/registry"
	"github.com/rkotov/bullscows/protocol"
)

func newTestHandler() *EnvelopeHandler {
	return NewEnvelopeHandler(newTestService(), zerolog.Nop())
}

func TestEnvelopeHandler_CreateJoinList(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	resp := h.Handle(ctx, &protocol.Message{
		Tag:        protocol.TagCreateGame,
		GameName:   "alpha",
		PlayerName: "Ann",
		MaxPlayers: 2,
	})
	if resp.Tag != protocol.TagGameCreated {
		t.Fatalf("Expected game_created, got %s (%s)", resp.Tag, resp.ErrorMsg)
	}
	if resp.GameName != "alpha" || resp.MaxPlayers != 2 || resp.PlayerCount != 1 {
		t.Errorf("Unexpected create response: %+v", resp)
	}

	resp = h.Handle(ctx, &protocol.Message{
		Tag:        protocol.TagJoinGame,
		GameName:   "alpha",
		PlayerName: "Bob",
	})
	if resp.Tag != protocol.TagGameJoined || resp.PlayerCount != 2 {
		t.Fatalf("Expected game_joined with 2 players, got %+v", resp)
	}

	resp = h.Handle(ctx, &protocol.Message{Tag: protocol.TagListGames})
	if resp.Tag != protocol.TagGameList || resp.GameCount != 1 {
		t.Errorf("Expected game_list with 1 game, got %+v", resp)
	}
}

func TestEnvelopeHandler_Errors(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *protocol.Message
		contain string
	}{
		{
			"unknown tag",
			&protocol.Message{Tag: protocol.Tag(99)},
			"unknown message type",
		},
		{
			"join unknown game",
			&protocol.Message{Tag: protocol.TagJoinGame, GameName: "ghost", PlayerName: "Bob"},
			"not found",
		},
		{
			"find with no games",
			&protocol.Message{Tag: protocol.TagFindGame, PlayerName: "Bob"},
			"no available games",
		},
		{
			"guess in unknown game",
			&protocol.Message{Tag: protocol.TagMakeGuess, GameName: "ghost", PlayerName: "Bob"},
			"not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Handle(ctx, tt.req)
			if resp.Tag != protocol.TagError {
				t.Fatalf("Expected error response, got %s", resp.Tag)
			}
			if !strings.Contains(resp.ErrorMsg, tt.contain) {
				t.Errorf("Expected error containing %q, got %q", tt.contain, resp.ErrorMsg)
			}
		})
	}
}

func TestEnvelopeHandler_GuessFlow(t *testing.T) {
	games := registry.New()
	svc := NewGameService(games, zerolog.Nop())
	h := NewEnvelopeHandler(svc, zerolog.Nop())
	ctx := context.Background()

	resp := h.Handle(ctx, &protocol.Message{
		Tag:        protocol.TagCreateGame,
		GameName:   "alpha",
		PlayerName: "Ann",
		MaxPlayers: 1,
	})
	if resp.Tag != protocol.TagGameCreated {
		t.Fatalf("Failed to create game: %s", resp.ErrorMsg)
	}

	t.Run("malformed guess is rejected", func(t *testing.T) {
		resp := h.Handle(ctx, &protocol.Message{
			Tag:        protocol.TagMakeGuess,
			GameName:   "alpha",
			PlayerName: "Ann",
			Guess:      [4]int{1, 1, 2, 3},
		})
		if resp.Tag != protocol.TagError {
			t.Fatalf("Expected error for repeated digits, got %s", resp.Tag)
		}
	})

	t.Run("winning guess returns game_won", func(t *testing.T) {
		var won *protocol.Message
		for _, g := range allGuesses() {
			resp := h.Handle(ctx, &protocol.Message{
				Tag:        protocol.TagMakeGuess,
				GameName:   "alpha",
				PlayerName: "Ann",
				Guess:      [4]int(g),
			})
			if resp.Tag == protocol.TagGameWon {
				won = resp
				break
			}
			if resp.Tag != protocol.TagGuessResult {
				t.Fatalf("Expected guess_result, got %s (%s)", resp.Tag, resp.ErrorMsg)
			}
			if resp.IsWinner {
				t.Fatal("Non-winning response flagged as winner")
			}
		}
		if won == nil {
			t.Fatal("No guess won the game")
		}
		if !won.IsWinner || won.Result.Bulls != 4 || won.Result.PlayerName != "Ann" {
			t.Errorf("Unexpected winning response: %+v", won)
		}

		// The game is finished now; the error names the winner.
		resp := h.Handle(ctx, &protocol.Message{
			Tag:        protocol.TagMakeGuess,
			GameName:   "alpha",
			PlayerName: "Ann",
			Guess:      [4]int{0, 1, 2, 3},
		})
		if resp.Tag != protocol.TagError || !strings.Contains(resp.ErrorMsg, "Ann") {
			t.Errorf("Expected finished error naming Ann, got %+v", resp)
		}
	})

	t.Run("leave acknowledges with game_state", func(t *testing.T) {
		resp := h.Handle(ctx, &protocol.Message{
			Tag:        protocol.TagLeaveGame,
			GameName:   "alpha",
			PlayerName: "Ann",
		})
		if resp.Tag != protocol.TagGameState || resp.GameName != "alpha" {
			t.Errorf("Expected game_state for alpha, got %+v", resp)
		}
	})
}
