// Package api provides the HTTP surface of the server.
//
// The wire envelope over UDP or websocket is the game's primary
// interface; this package adds a small read-mostly REST companion for
// tooling and dashboards, plus the websocket upgrade endpoint.
//
// Endpoints:
//   - GET  /api/games        - active-game count and summaries
//   - GET  /api/games/{name} - one game's roster, state, and winner
//   - POST /api/games        - create a game (JSON body)
//   - /ws                    - websocket envelope transport
//
// All endpoints accept and return JSON. Errors come back as
//
//	{"error": "message"}
//
// with a matching HTTP status code.
package api
