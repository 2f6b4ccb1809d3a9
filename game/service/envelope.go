package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/game/engine"
	"github.com/rkotov/bullscows/protocol"
)

// EnvelopeHandler routes decoded wire envelopes to GameService
// operations and shapes the response envelope. It is shared by every
// message transport: a request either fully succeeds or comes back as a
// fully-formed error envelope, never partially filled.
type EnvelopeHandler struct {
	svc GameService
	log zerolog.Logger
}

// NewEnvelopeHandler creates a handler over svc.
func NewEnvelopeHandler(svc GameService, log zerolog.Logger) *EnvelopeHandler {
	return &EnvelopeHandler{
		svc: svc,
		log: log.With().Str("component", "handler").Logger(),
	}
}

// Handle executes one request envelope and always returns a response
// envelope. Unknown tags produce a protocol error response.
func (h *EnvelopeHandler) Handle(ctx context.Context, req *protocol.Message) *protocol.Message {
	switch req.Tag {
	case protocol.TagCreateGame:
		return h.createGame(ctx, req)
	case protocol.TagJoinGame:
		return h.joinGame(ctx, req)
	case protocol.TagFindGame:
		return h.findGame(ctx, req)
	case protocol.TagMakeGuess:
		return h.makeGuess(ctx, req)
	case protocol.TagLeaveGame:
		return h.leaveGame(ctx, req)
	case protocol.TagListGames:
		return h.listGames(ctx)
	default:
		h.log.Warn().Uint8("tag", uint8(req.Tag)).Msg("unknown message type")
		return protocol.ErrorMessage("unknown message type")
	}
}

func (h *EnvelopeHandler) createGame(ctx context.Context, req *protocol.Message) *protocol.Message {
	sum, err := h.svc.CreateGame(ctx, req.GameName, req.PlayerName, req.MaxPlayers)
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}
	return &protocol.Message{
		Tag:         protocol.TagGameCreated,
		GameName:    sum.Name,
		MaxPlayers:  sum.MaxPlayers,
		PlayerCount: sum.PlayerCount,
	}
}

func (h *EnvelopeHandler) joinGame(ctx context.Context, req *protocol.Message) *protocol.Message {
	sum, err := h.svc.JoinGame(ctx, req.GameName, req.PlayerName)
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}
	return &protocol.Message{
		Tag:         protocol.TagGameJoined,
		GameName:    sum.Name,
		MaxPlayers:  sum.MaxPlayers,
		PlayerCount: sum.PlayerCount,
	}
}

func (h *EnvelopeHandler) findGame(ctx context.Context, req *protocol.Message) *protocol.Message {
	sum, err := h.svc.FindGame(ctx, req.PlayerName)
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}
	return &protocol.Message{
		Tag:         protocol.TagGameFound,
		GameName:    sum.Name,
		MaxPlayers:  sum.MaxPlayers,
		PlayerCount: sum.PlayerCount,
	}
}

func (h *EnvelopeHandler) makeGuess(ctx context.Context, req *protocol.Message) *protocol.Message {
	out, err := h.svc.MakeGuess(ctx, req.GameName, req.PlayerName, engine.Guess(req.Guess))
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}

	resp := &protocol.Message{
		Tag:      protocol.TagGuessResult,
		GameName: out.GameName,
		Result: protocol.GuessResult{
			Bulls:      out.Score.Bulls,
			Cows:       out.Score.Cows,
			Attempt:    out.Attempt,
			PlayerName: out.Player,
		},
	}
	if out.Won {
		resp.Tag = protocol.TagGameWon
		resp.IsWinner = true
	}
	return resp
}

func (h *EnvelopeHandler) leaveGame(ctx context.Context, req *protocol.Message) *protocol.Message {
	sum, err := h.svc.LeaveGame(ctx, req.GameName, req.PlayerName)
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}
	return &protocol.Message{
		Tag:         protocol.TagGameState,
		GameName:    sum.Name,
		MaxPlayers:  sum.MaxPlayers,
		PlayerCount: sum.PlayerCount,
	}
}

func (h *EnvelopeHandler) listGames(ctx context.Context) *protocol.Message {
	count, err := h.svc.ListGames(ctx)
	if err != nil {
		return protocol.ErrorMessage(err.Error())
	}
	return &protocol.Message{
		Tag:       protocol.TagGameList,
		GameCount: count,
	}
}
