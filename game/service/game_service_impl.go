package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/game/engine"
	"github.com/rkotov/bullscows/game/registry"
)

// gameServiceImpl implements GameService on top of the registry.
// It owns cross-cutting input validation (name bounds) and operation
// logging; all locking lives inside the registry.
type gameServiceImpl struct {
	games *registry.Registry
	log   zerolog.Logger
}

// NewGameService creates a new game service instance.
func NewGameService(games *registry.Registry, log zerolog.Logger) GameService {
	return &gameServiceImpl{
		games: games,
		log:   log.With().Str("component", "service").Logger(),
	}
}

// CreateGame registers a new game with the caller as its first player.
func (s *gameServiceImpl) CreateGame(ctx context.Context, name, creator string, maxPlayers int) (registry.Summary, error) {
	if err := engine.ValidateGameName(name); err != nil {
		return registry.Summary{}, err
	}
	if err := engine.ValidatePlayerName(creator); err != nil {
		return registry.Summary{}, err
	}

	sum, err := s.games.Create(name, creator, maxPlayers)
	if err != nil {
		return registry.Summary{}, err
	}
	s.log.Info().Str("game", sum.Name).Str("creator", creator).Int("max_players", sum.MaxPlayers).Msg("game created")
	return sum, nil
}

// JoinGame adds the player to the named game.
func (s *gameServiceImpl) JoinGame(ctx context.Context, name, player string) (registry.Summary, error) {
	if err := engine.ValidatePlayerName(player); err != nil {
		return registry.Summary{}, err
	}

	sum, err := s.games.Join(name, player)
	if err != nil {
		return registry.Summary{}, err
	}
	s.log.Info().Str("game", sum.Name).Str("player", player).
		Int("players", sum.PlayerCount).Int("max_players", sum.MaxPlayers).Msg("player joined")
	return sum, nil
}

// FindGame joins the first available game in registration order.
func (s *gameServiceImpl) FindGame(ctx context.Context, player string) (registry.Summary, error) {
	if err := engine.ValidatePlayerName(player); err != nil {
		return registry.Summary{}, err
	}

	sum, err := s.games.AutoJoin(player)
	if err != nil {
		return registry.Summary{}, err
	}
	s.log.Info().Str("game", sum.Name).Str("player", player).
		Int("players", sum.PlayerCount).Msg("player auto-joined")
	return sum, nil
}

// LeaveGame marks the player inactive in the named game.
func (s *gameServiceImpl) LeaveGame(ctx context.Context, name, player string) (registry.Summary, error) {
	sum, err := s.games.Leave(name, player)
	if err != nil {
		return registry.Summary{}, err
	}
	s.log.Info().Str("game", sum.Name).Str("player", player).Msg("player left")
	return sum, nil
}

// MakeGuess scores the player's guess against the named game.
func (s *gameServiceImpl) MakeGuess(ctx context.Context, name, player string, guess engine.Guess) (registry.GuessOutcome, error) {
	out, err := s.games.Guess(name, player, guess)
	if err != nil {
		return registry.GuessOutcome{}, err
	}

	event := s.log.Info().Str("game", out.GameName).Str("player", out.Player).
		Int("attempt", out.Attempt).Int("bulls", out.Score.Bulls).Int("cows", out.Score.Cows)
	if out.Won {
		event.Msg("game won")
	} else {
		event.Msg("guess scored")
	}
	return out, nil
}

// GetGame returns a snapshot of the named game.
func (s *gameServiceImpl) GetGame(ctx context.Context, name string) (registry.Summary, error) {
	return s.games.Find(name)
}

// ListGames returns the number of active, unfinished games.
func (s *gameServiceImpl) ListGames(ctx context.Context) (int, error) {
	count := s.games.CountActive()
	s.log.Debug().Int("count", count).Msg("games listed")
	return count, nil
}

// Games returns snapshots of every registered game.
func (s *gameServiceImpl) Games(ctx context.Context) ([]registry.Summary, error) {
	return s.games.Snapshot(), nil
}
