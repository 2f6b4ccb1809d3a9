package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Inbound messages are single envelopes; anything larger is bogus.
	maxMessageSize = protocol.FrameSize + 16

	// Per-connection response queue size.
	sendQueueSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The envelope carries no credentials; origin checks add nothing.
		return true
	},
}

// HandlerFunc executes one request envelope and returns the response
// envelope.
type HandlerFunc func(ctx context.Context, req *protocol.Message) *protocol.Message

// client is one websocket connection with its opaque identity and
// response queue.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Gateway accepts websocket clients and routes each request envelope
// through the shared handler, answering on the originating connection.
type Gateway struct {
	handler HandlerFunc
	log     zerolog.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]*client
}

// NewGateway creates a gateway over handler.
func NewGateway(handler HandlerFunc, log zerolog.Logger) *Gateway {
	return &Gateway{
		handler: handler,
		log:     log.With().Str("component", "wsgw").Logger(),
		clients: make(map[uuid.UUID]*client),
	}
}

// ServeHTTP upgrades the request and serves envelopes until the client
// disconnects.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	g.register(c)

	go c.writePump(g)
	go c.readPump(g)
}

// ClientCount returns the number of connected clients.
func (g *Gateway) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// Close disconnects every client. New upgrades are not prevented; stop
// the HTTP server for that.
func (g *Gateway) Close() {
	g.mu.Lock()
	clients := make([]*client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

func (g *Gateway) register(c *client) {
	g.mu.Lock()
	g.clients[c.id] = c
	total := len(g.clients)
	g.mu.Unlock()

	g.log.Info().Str("client", c.id.String()).Int("total", total).Msg("client connected")
}

func (g *Gateway) unregister(c *client) {
	g.mu.Lock()
	if _, ok := g.clients[c.id]; ok {
		delete(g.clients, c.id)
		close(c.send)
	}
	total := len(g.clients)
	g.mu.Unlock()

	g.log.Info().Str("client", c.id.String()).Int("total", total).Msg("client disconnected")
}

// readPump reads request envelopes and queues their responses. Requests
// from one connection are handled in order; the registry serializes
// across connections.
func (c *client) readPump(g *Gateway) {
	// The connection outlives the upgrade request, so handlers get a
	// fresh root context rather than the request's.
	ctx := context.Background()

	defer func() {
		g.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				g.log.Warn().Err(err).Str("client", c.id.String()).Msg("websocket read failed")
			}
			return
		}
		if kind != websocket.BinaryMessage {
			c.reply(g, protocol.ErrorMessage("expected a binary envelope frame"))
			continue
		}

		req, err := protocol.Decode(frame)
		if err != nil {
			g.log.Warn().Err(err).Str("client", c.id.String()).Msg("malformed frame")
			c.reply(g, protocol.ErrorMessage("malformed request frame"))
			continue
		}
		c.reply(g, g.handler(ctx, req))
	}
}

// reply queues a response envelope; a full queue means the client has
// stalled and the connection is dropped.
func (c *client) reply(g *Gateway, resp *protocol.Message) {
	select {
	case c.send <- protocol.Encode(resp):
	default:
		g.log.Warn().Str("client", c.id.String()).Msg("send queue full, dropping client")
		c.conn.Close()
	}
}

// writePump writes queued responses and keepalive pings.
func (c *client) writePump(g *Gateway) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The gateway closed the queue.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
