package engine

// SecretLength is the number of digits in a secret and in a guess.
const SecretLength = 4

const (
	MinPlayers = 1
	MaxPlayers = 10

	// Wire-format bounds shared with the protocol package.
	MaxGameNameLen   = 64
	MaxPlayerNameLen = 32
)

// Secret is a 4-digit sequence with pairwise-distinct digits in 0-9.
type Secret [SecretLength]int

// Guess is a player's 4-digit guess. It is validated with ValidateGuess
// before it is ever scored.
type Guess [SecretLength]int

// Score is the result of evaluating one guess against a secret.
type Score struct {
	Bulls int `json:"bulls"`
	Cows  int `json:"cows"`
}

// Won reports whether the score wins the game.
func (s Score) Won() bool {
	return s.Bulls == SecretLength
}

// GameState is the lifecycle state of a game.
type GameState string

const (
	// Forming games have open roster slots and accept joins and guesses.
	Forming GameState = "forming"
	// Full games have a complete roster; they accept guesses only.
	Full GameState = "full"
	// Finished is terminal: some player scored 4 bulls.
	Finished GameState = "finished"
)

// Player is one roster entry. Entries are appended at create/join time
// and never removed; leaving only clears the Active flag.
type Player struct {
	Name     string `json:"name"`
	Attempts int    `json:"attempts"`
	Active   bool   `json:"active"`
}

// Game is one session: a secret, a roster, and lifecycle flags.
// All mutation happens under the registry lock.
type Game struct {
	Name       string   `json:"name"`
	Secret     Secret   `json:"-"`
	MaxPlayers int      `json:"max_players"`
	Players    []Player `json:"players"`
	Active     bool     `json:"active"`
	Finished   bool     `json:"finished"`
	Winner     string   `json:"winner,omitempty"`
}

// NewGame creates a Forming game with a fresh secret and the creator as
// player 0. Callers validate name and maxPlayers first.
func NewGame(name, creator string, maxPlayers int) *Game {
	return &Game{
		Name:       name,
		Secret:     NewSecret(),
		MaxPlayers: maxPlayers,
		Players:    []Player{{Name: creator, Active: true}},
		Active:     true,
	}
}

// State derives the lifecycle state from the flags and roster.
func (g *Game) State() GameState {
	switch {
	case g.Finished:
		return Finished
	case len(g.Players) >= g.MaxPlayers:
		return Full
	default:
		return Forming
	}
}

// IsFull reports whether the roster has no open slots.
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// Joinable reports whether the game can accept another player.
func (g *Game) Joinable() bool {
	return g.Active && !g.Finished && !g.IsFull()
}

// PlayerByName returns the roster entry for name, or nil.
func (g *Game) PlayerByName(name string) *Player {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return &g.Players[i]
		}
	}
	return nil
}

// AddPlayer appends a roster entry. The registry has already checked
// capacity and duplicates.
func (g *Game) AddPlayer(name string) {
	g.Players = append(g.Players, Player{Name: name, Active: true})
}

// Finish transitions the game to Finished with the given winner.
// The transition happens at most once; later calls are no-ops.
func (g *Game) Finish(winner string) {
	if g.Finished {
		return
	}
	g.Finished = true
	g.Winner = winner
}
