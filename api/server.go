package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/game/registry"
	"github.com/rkotov/bullscows/game/service"
	ws "github.com/rkotov/bullscows/transport/websocket"
)

// Server is the REST API server.
type Server struct {
	service service.GameService
	wsgw    *ws.Gateway
	router  *mux.Router
	log     zerolog.Logger
}

// NewServer creates the API server. wsgw may be nil to disable the
// websocket endpoint.
func NewServer(gameService service.GameService, wsgw *ws.Gateway, log zerolog.Logger) *Server {
	s := &Server{
		service: gameService,
		wsgw:    wsgw,
		router:  mux.NewRouter(),
		log:     log.With().Str("component", "api").Logger(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games/{name}", s.handleGetGame).Methods("GET")

	if s.wsgw != nil {
		s.router.Handle("/ws", s.wsgw)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var finished *registry.FinishedError
	switch {
	case errors.Is(err, registry.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDuplicateName),
		errors.Is(err, registry.ErrAlreadyJoined),
		errors.Is(err, registry.ErrGameFull),
		errors.As(err, &finished):
		return http.StatusConflict
	case errors.Is(err, registry.ErrCapacityExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// Handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	games, err := s.service.Games(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"active_count": count,
		"games":        games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	sum, err := s.service.GetGame(r.Context(), name)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Player     string `json:"player"`
		MaxPlayers int    `json:"max_players"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sum, err := s.service.CreateGame(r.Context(), req.Name, req.Player, req.MaxPlayers)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.log.Info().Str("game", sum.Name).Msg("game created via REST")
	respondJSON(w, http.StatusCreated, sum)
}
