// Package websocket provides a stream transport for the game's wire
// envelope.
//
// Each connection is one client. On upgrade the gateway assigns the
// connection an opaque client id; requests arrive as binary websocket
// messages carrying exactly one envelope, and each response is routed
// back over the originating connection's send queue. Handler logic
// never sees connections or addresses.
//
// Message Protocol:
//
// Binary messages, one fixed-size envelope per message (see the
// protocol package for the byte layout). Responses reuse the same
// framing. A malformed frame earns an error envelope, not a dropped
// connection.
//
// Connection Lifecycle:
//
//  1. Client upgrades at /ws and is registered under a fresh id
//  2. Requests are read, handled, and answered in order per connection
//  3. Ping/pong keepalive runs in the background
//  4. Disconnection or a stalled send queue triggers cleanup
//
// Concurrency:
//
// Connections operate independently; one slow client blocks only its
// own queue. Requests from different connections are handled
// concurrently, serialized only by the game registry itself.
package websocket
