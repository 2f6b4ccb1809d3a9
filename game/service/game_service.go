package service

import (
	"context"

	"github.com/rkotov/bullscows/game/engine"
	"github.com/rkotov/bullscows/game/registry"
)

// GameService defines all game-related operations. Every transport
// (UDP envelope, websocket, REST) talks to the game through this
// interface; each call is one atomic registry operation.
type GameService interface {
	// Session management
	CreateGame(ctx context.Context, name, creator string, maxPlayers int) (registry.Summary, error)
	JoinGame(ctx context.Context, name, player string) (registry.Summary, error)
	FindGame(ctx context.Context, player string) (registry.Summary, error)
	LeaveGame(ctx context.Context, name, player string) (registry.Summary, error)

	// Game play
	MakeGuess(ctx context.Context, name, player string, guess engine.Guess) (registry.GuessOutcome, error)

	// Introspection
	GetGame(ctx context.Context, name string) (registry.Summary, error)
	ListGames(ctx context.Context) (int, error)
	Games(ctx context.Context) ([]registry.Summary, error)
}
