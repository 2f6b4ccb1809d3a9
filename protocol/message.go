package protocol

// Tag identifies the command of a request or the kind of a response.
type Tag uint8

const (
	// Requests.
	TagCreateGame Tag = iota + 1
	TagJoinGame
	TagFindGame
	TagMakeGuess
	TagLeaveGame
	TagListGames

	// Responses.
	TagGameCreated
	TagGameJoined
	TagGameFound
	TagGuessResult
	TagGameWon
	TagGameState
	TagError
	TagGameList
)

var tagNames = map[Tag]string{
	TagCreateGame:  "create_game",
	TagJoinGame:    "join_game",
	TagFindGame:    "find_game",
	TagMakeGuess:   "make_guess",
	TagLeaveGame:   "leave_game",
	TagListGames:   "list_games",
	TagGameCreated: "game_created",
	TagGameJoined:  "game_joined",
	TagGameFound:   "game_found",
	TagGuessResult: "guess_result",
	TagGameWon:     "game_won",
	TagGameState:   "game_state",
	TagError:       "error",
	TagGameList:    "game_list",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsRequest reports whether the tag is a client command.
func (t Tag) IsRequest() bool {
	return t >= TagCreateGame && t <= TagListGames
}

// GuessResult is the scored-guess substructure of a response.
type GuessResult struct {
	Bulls      int
	Cows       int
	Attempt    int
	PlayerName string
}

// Message is the decoded envelope. One struct serves both directions;
// which fields are meaningful depends on the tag, exactly as on the
// wire.
type Message struct {
	Tag         Tag
	GameName    string
	PlayerName  string
	MaxPlayers  int
	Guess       [GuessDigits]int
	Result      GuessResult
	ErrorMsg    string
	GameCount   int
	PlayerCount int
	IsWinner    bool
}

// ErrorMessage builds an error-tagged response envelope.
func ErrorMessage(msg string) *Message {
	return &Message{Tag: TagError, ErrorMsg: msg}
}
