// Command bullscows-server runs the bulls and cows session server.
//
// The server speaks the fixed-layout wire envelope over two transports:
//  1. UDP – the addressed datagram gateway (default :5555)
//  2. WebSocket + REST – served over HTTP (default :8080)
//
// Flags control the listen addresses, worker pool size, the
// single-responder mode for minimal deployments, and debug logging.
// SIGINT/SIGTERM triggers a graceful shutdown: the gateways stop
// accepting requests, in-flight work is drained with a timeout, then
// the HTTP server closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/rkotov/bullscows/api"
	"github.com/rkotov/bullscows/game/registry"
	"github.com/rkotov/bullscows/game/service"
	"github.com/rkotov/bullscows/transport/udpgw"
	ws "github.com/rkotov/bullscows/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Bulls and Cows Server"
)

func main() {
	// Load .env if present; a missing file is the normal case.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	cmd := &cli.Command{
		Name:    "bullscows-server",
		Usage:   "multiplayer bulls and cows session server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "udp-addr",
				Value:   ":5555",
				Usage:   "UDP gateway listen address",
				Sources: cli.EnvVars("BC_UDP_ADDR"),
			},
			&cli.StringFlag{
				Name:    "http-addr",
				Value:   ":8080",
				Usage:   "HTTP listen address (REST + websocket)",
				Sources: cli.EnvVars("BC_HTTP_ADDR"),
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: udpgw.DefaultWorkers,
				Usage: "UDP gateway worker pool size",
			},
			&cli.BoolFlag{
				Name:  "single",
				Usage: "single-responder mode: handle one request at a time",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("BC_DEBUG"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	logger.Info().Str("version", Version).Msg(AppName + " starting")

	games := registry.New()
	svc := service.NewGameService(games, logger)
	handler := service.NewEnvelopeHandler(svc, logger)

	gw, err := udpgw.New(udpgw.Config{
		Addr:            cmd.String("udp-addr"),
		Workers:         int(cmd.Int("workers")),
		SingleResponder: cmd.Bool("single"),
	}, handler.Handle, logger)
	if err != nil {
		return err
	}

	wsgw := ws.NewGateway(handler.Handle, logger)
	httpSrv := &http.Server{
		Addr:    cmd.String("http-addr"),
		Handler: api.NewServer(svc, wsgw, logger),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gwErr := make(chan error, 1)
	go func() { gwErr <- gw.Run(ctx) }()

	httpErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Msg("http server listening")
		err := httpSrv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		httpErr <- err
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-gwErr:
		gwErr = nil
		if err != nil {
			runErr = fmt.Errorf("udp gateway: %w", err)
		}
	case err := <-httpErr:
		httpErr = nil
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	// Ordered shutdown: cancel the gateway (it drains its workers),
	// drop websocket clients, then close the HTTP listener.
	stop()
	if gwErr != nil {
		if err := <-gwErr; err != nil && runErr == nil {
			runErr = fmt.Errorf("udp gateway: %w", err)
		}
	}

	wsgw.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http shutdown: %w", err)
	}
	if httpErr != nil {
		<-httpErr
	}

	logger.Info().Msg("server stopped")
	return runErr
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
