// Package udpgw is the addressed datagram gateway. Each inbound UDP
// datagram carries one request envelope; the sender's address is the
// opaque client token, captured with the request and used to route the
// response. Handlers never see raw addresses.
package udpgw

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/protocol"
)

const (
	// DefaultWorkers bounds concurrent request handling in addressed
	// mode.
	DefaultWorkers = 8

	// DefaultReadTimeout is how long one receive call blocks before the
	// loop re-checks for shutdown. An elapsed wait is not an error.
	DefaultReadTimeout = time.Second

	// DefaultDrainTimeout caps how long shutdown waits for in-flight
	// workers before dropping them.
	DefaultDrainTimeout = 5 * time.Second
)

// HandlerFunc executes one request envelope and returns the response
// envelope. It must not return nil.
type HandlerFunc func(ctx context.Context, req *protocol.Message) *protocol.Message

// Config tunes the gateway.
type Config struct {
	// Addr is the UDP listen address, e.g. ":5555".
	Addr string

	// SingleResponder disables concurrency: each request is received,
	// fully handled, and replied to before the next receive.
	SingleResponder bool

	// Workers is the pool size in addressed mode. Zero means
	// DefaultWorkers.
	Workers int

	// ReadTimeout and DrainTimeout default to the package constants
	// when zero.
	ReadTimeout  time.Duration
	DrainTimeout time.Duration
}

// job pairs a request frame with the client address captured at
// receive time.
type job struct {
	addr  *net.UDPAddr
	frame []byte
}

// Gateway owns the socket and the dispatch loop.
type Gateway struct {
	cfg     Config
	conn    *net.UDPConn
	handler HandlerFunc
	log     zerolog.Logger

	jobs chan job
	wg   sync.WaitGroup
}

// New binds the UDP socket and prepares the gateway. Run starts
// serving.
func New(cfg Config, handler HandlerFunc, log zerolog.Logger) (*Gateway, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}

	addr, err := net.ResolveUDPAddr("udp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Addr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	return &Gateway{
		cfg:     cfg,
		conn:    conn,
		handler: handler,
		log:     log.With().Str("component", "udpgw").Logger(),
		jobs:    make(chan job, cfg.Workers),
	}, nil
}

// LocalAddr returns the bound socket address.
func (g *Gateway) LocalAddr() net.Addr {
	return g.conn.LocalAddr()
}

// Run receives datagrams until ctx is cancelled or the socket fails.
//
// In addressed mode requests are handed to the worker pool; a full
// queue blocks the receive loop, applying backpressure at the socket.
// On shutdown the loop stops accepting frames, closes the queue, and
// waits up to DrainTimeout for in-flight work before returning.
func (g *Gateway) Run(ctx context.Context) error {
	defer g.conn.Close()

	if !g.cfg.SingleResponder {
		for i := 0; i < g.cfg.Workers; i++ {
			g.wg.Add(1)
			go g.worker(ctx)
		}
	}

	mode := "addressed"
	if g.cfg.SingleResponder {
		mode = "single-responder"
	}
	g.log.Info().Str("addr", g.conn.LocalAddr().String()).Str("mode", mode).
		Int("workers", g.cfg.Workers).Msg("gateway listening")

	err := g.receiveLoop(ctx)

	close(g.jobs)
	g.drain()
	return err
}

func (g *Gateway) receiveLoop(ctx context.Context) error {
	// One byte beyond the frame size so oversized datagrams are seen
	// as such instead of silently truncated.
	buf := make([]byte, protocol.FrameSize+1)

	for {
		if ctx.Err() != nil {
			return nil
		}

		g.conn.SetReadDeadline(time.Now().Add(g.cfg.ReadTimeout))
		n, addr, err := g.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				// Quiet second: loop back to check for shutdown.
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive failed: %w", err)
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		j := job{addr: addr, frame: frame}

		if g.cfg.SingleResponder {
			g.process(ctx, j)
			continue
		}
		select {
		case g.jobs <- j:
		case <-ctx.Done():
			return nil
		}
	}
}

func (g *Gateway) worker(ctx context.Context) {
	defer g.wg.Done()
	for j := range g.jobs {
		g.process(ctx, j)
	}
}

// process decodes, handles, and replies to the captured client address.
// Every inbound frame gets a fully-formed response envelope, decode
// failures included.
func (g *Gateway) process(ctx context.Context, j job) {
	var resp *protocol.Message

	req, err := protocol.Decode(j.frame)
	if err != nil {
		g.log.Warn().Err(err).Str("client", j.addr.String()).Msg("malformed frame")
		resp = protocol.ErrorMessage("malformed request frame")
	} else {
		resp = g.handler(ctx, req)
	}

	if _, err := g.conn.WriteToUDP(protocol.Encode(resp), j.addr); err != nil {
		g.log.Warn().Err(err).Str("client", j.addr.String()).Msg("failed to send response")
	}
}

// drain waits for in-flight workers, dropping them after DrainTimeout.
func (g *Gateway) drain() {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.log.Info().Msg("gateway drained")
	case <-time.After(g.cfg.DrainTimeout):
		g.log.Warn().Dur("timeout", g.cfg.DrainTimeout).Msg("drain timeout, dropping in-flight requests")
	}
}
