package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rkotov/bullscows/game/engine"
)

// DefaultCapacity is the ceiling on concurrently running (non-finished)
// games, matching the reference deployment.
const DefaultCapacity = 100

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrDuplicateName    = errors.New("game with this name already exists")
	ErrCapacityExceeded = errors.New("server game limit reached")
	ErrGameFull         = errors.New("game is full")
	ErrAlreadyJoined    = errors.New("player already joined this game")
	ErrNotInGame        = errors.New("player is not part of this game")
	ErrNoGameAvailable  = errors.New("no available games, create a new one")
)

// FinishedError rejects joins and guesses against a finished game and
// names the winner.
type FinishedError struct {
	Winner string
}

func (e *FinishedError) Error() string {
	return fmt.Sprintf("game already finished, winner: %s", e.Winner)
}

// Summary is a copy of a game's client-visible state, safe to use
// outside the registry lock.
type Summary struct {
	Name        string           `json:"name"`
	MaxPlayers  int              `json:"max_players"`
	PlayerCount int              `json:"player_count"`
	State       engine.GameState `json:"state"`
	Winner      string           `json:"winner,omitempty"`
	Players     []engine.Player  `json:"players"`
}

// GuessOutcome reports one scored guess.
type GuessOutcome struct {
	GameName string       `json:"game_name"`
	Player   string       `json:"player"`
	Score    engine.Score `json:"score"`
	Attempt  int          `json:"attempt"`
	Won      bool         `json:"won"`
}

// Registry is the process-wide table of game sessions.
//
// One mutex serializes every operation, reads included, for its whole
// duration. Scans therefore always observe a consistent table, and
// check-then-act sequences (duplicate-name check followed by insert)
// are atomic. Games are appended in registration order and never
// removed; first-fit scans rely on that order.
type Registry struct {
	mu       sync.Mutex
	games    []*engine.Game
	capacity int
}

// New creates a registry with DefaultCapacity.
func New() *Registry {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a registry that allows at most capacity
// concurrently running (non-finished) games.
func NewWithCapacity(capacity int) *Registry {
	return &Registry{capacity: capacity}
}

// Create registers a new game with a fresh secret and the creator as its
// first player. Fails if an active game already holds name, if the
// running-game ceiling is reached, or if maxPlayers is out of range.
func (r *Registry) Create(name, creator string, maxPlayers int) (Summary, error) {
	if err := engine.ValidatePlayerCount(maxPlayers); err != nil {
		return Summary{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.countActiveLocked() >= r.capacity {
		return Summary{}, ErrCapacityExceeded
	}
	if r.findLocked(name) != nil {
		return Summary{}, ErrDuplicateName
	}

	game := engine.NewGame(name, creator, maxPlayers)
	r.games = append(r.games, game)
	return summarize(game), nil
}

// Join adds player to the named game.
func (r *Registry) Join(name, player string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game := r.findLocked(name)
	if game == nil {
		return Summary{}, ErrGameNotFound
	}
	return r.joinLocked(game, player)
}

// AutoJoin scans games in registration order and joins the first one
// that is active, not finished, and not full. The scan and the join are
// one atomic unit, so the chosen game cannot fill up in between.
func (r *Registry) AutoJoin(player string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, game := range r.games {
		if game.Joinable() {
			return r.joinLocked(game, player)
		}
	}
	return Summary{}, ErrNoGameAvailable
}

// Guess validates and scores player's guess against the named game's
// secret. The first guess scoring four bulls finishes the game and
// records the guesser as the permanent winner.
func (r *Registry) Guess(name, player string, guess engine.Guess) (GuessOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game := r.findLocked(name)
	if game == nil {
		return GuessOutcome{}, ErrGameNotFound
	}
	if game.Finished {
		return GuessOutcome{}, &FinishedError{Winner: game.Winner}
	}

	entry := game.PlayerByName(player)
	if entry == nil {
		return GuessOutcome{}, ErrNotInGame
	}
	if err := engine.ValidateGuess(guess); err != nil {
		return GuessOutcome{}, err
	}

	entry.Attempts++
	score := engine.Evaluate(game.Secret, guess)
	if score.Won() {
		game.Finish(player)
	}

	return GuessOutcome{
		GameName: game.Name,
		Player:   player,
		Score:    score,
		Attempt:  entry.Attempts,
		Won:      score.Won(),
	}, nil
}

// Leave marks player's roster entry inactive. The entry itself stays:
// rosters only ever grow, and a returning player keeps their attempt
// count.
func (r *Registry) Leave(name, player string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game := r.findLocked(name)
	if game == nil {
		return Summary{}, ErrGameNotFound
	}
	entry := game.PlayerByName(player)
	if entry == nil {
		return Summary{}, ErrNotInGame
	}
	entry.Active = false
	return summarize(game), nil
}

// Find returns a snapshot of the named game.
func (r *Registry) Find(name string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game := r.findLocked(name)
	if game == nil {
		return Summary{}, ErrGameNotFound
	}
	return summarize(game), nil
}

// CountActive returns the number of games that are active and not
// finished.
func (r *Registry) CountActive() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countActiveLocked()
}

// Snapshot returns summaries of every registered game in registration
// order, finished games included.
func (r *Registry) Snapshot() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Summary, 0, len(r.games))
	for _, game := range r.games {
		out = append(out, summarize(game))
	}
	return out
}

// joinLocked applies the join rules to game. Callers hold r.mu.
func (r *Registry) joinLocked(game *engine.Game, player string) (Summary, error) {
	if game.Finished {
		return Summary{}, &FinishedError{Winner: game.Winner}
	}
	if game.PlayerByName(player) != nil {
		return Summary{}, ErrAlreadyJoined
	}
	if game.IsFull() {
		return Summary{}, ErrGameFull
	}
	game.AddPlayer(player)
	return summarize(game), nil
}

// findLocked returns the active game named name, or nil. Callers hold r.mu.
func (r *Registry) findLocked(name string) *engine.Game {
	for _, game := range r.games {
		if game.Active && game.Name == name {
			return game
		}
	}
	return nil
}

// countActiveLocked counts active, non-finished games. Callers hold r.mu.
// Finished games stay registered but no longer consume creation capacity.
func (r *Registry) countActiveLocked() int {
	count := 0
	for _, game := range r.games {
		if game.Active && !game.Finished {
			count++
		}
	}
	return count
}

func summarize(game *engine.Game) Summary {
	players := make([]engine.Player, len(game.Players))
	copy(players, game.Players)
	return Summary{
		Name:        game.Name,
		MaxPlayers:  game.MaxPlayers,
		PlayerCount: len(game.Players),
		State:       game.State(),
		Winner:      game.Winner,
		Players:     players,
	}
}
