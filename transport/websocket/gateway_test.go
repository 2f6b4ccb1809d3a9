package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rkotov/bullscows/game/registry"
	"github.com/rkotov/bullscows/game/service"
	"github.com/rkotov/bullscows/protocol"
)

func startGateway(t *testing.T) (*Gateway, *websocket.Conn) {
	t.Helper()

	svc := service.NewGameService(registry.New(), zerolog.Nop())
	handler := service.NewEnvelopeHandler(svc, zerolog.Nop())
	gw := NewGateway(handler.Handle, zerolog.Nop())

	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return gw, conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req *protocol.Message) *protocol.Message {
	t.Helper()

	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.Encode(req)); err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("Expected a binary response, got message type %d", kind)
	}

	resp, err := protocol.Decode(frame)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestGateway_RequestResponse(t *testing.T) {
	_, conn := startGateway(t)

	resp := roundTrip(t, conn, &protocol.Message{
		Tag:        protocol.TagCreateGame,
		GameName:   "alpha",
		PlayerName: "Ann",
		MaxPlayers: 2,
	})
	if resp.Tag != protocol.TagGameCreated {
		t.Fatalf("Expected game_created, got %s (%s)", resp.Tag, resp.ErrorMsg)
	}

	resp = roundTrip(t, conn, &protocol.Message{
		Tag:        protocol.TagMakeGuess,
		GameName:   "alpha",
		PlayerName: "Ann",
		Guess:      [4]int{0, 1, 2, 3},
	})
	if resp.Tag != protocol.TagGuessResult && resp.Tag != protocol.TagGameWon {
		t.Fatalf("Expected a guess response, got %s (%s)", resp.Tag, resp.ErrorMsg)
	}
	if resp.Result.Attempt != 1 {
		t.Errorf("Expected attempt 1, got %d", resp.Result.Attempt)
	}
}

func TestGateway_MalformedFrames(t *testing.T) {
	_, conn := startGateway(t)

	t.Run("garbage binary frame", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.BinaryMessage, []byte("junk")); err != nil {
			t.Fatalf("Failed to send: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read response: %v", err)
		}
		resp, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Tag != protocol.TagError {
			t.Errorf("Expected error response, got %s", resp.Tag)
		}
	})

	t.Run("text frame", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
			t.Fatalf("Failed to send: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read response: %v", err)
		}
		resp, err := protocol.Decode(frame)
		if err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Tag != protocol.TagError {
			t.Errorf("Expected error response, got %s", resp.Tag)
		}
	})
}

func TestGateway_TracksClients(t *testing.T) {
	gw, conn := startGateway(t)

	deadline := time.Now().Add(2 * time.Second)
	for gw.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 1 client, got %d", gw.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()
	for gw.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 0 clients after disconnect, got %d", gw.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
