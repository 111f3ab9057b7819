// Command textrelay keeps a text buffer in sync between everyone in a room.
//
//	PORT=5000 textrelay
//
// Everything is as ephemeral as can be. A room exists while someone is in
// it and is forgotten when its last member disconnects. The server never
// stores the text; it relays each update to the other members and forgets
// it.
//
// Clients open a websocket on any path and send JSON frames.
//
//	{"type": "join", "id": "my-room"}   join a room, or a fresh one if id is empty
//	{"type": "joined", "id": "my-room"} the reply, with the resolved id
//	{"type": "text", "data": "..."}     the whole buffer, relayed to everyone else
//
// Other GET requests are served from the static directory, falling back to
// its index.html, falling back to a built-in page.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/facebookgo/httpdown"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "textrelay: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return exitConfig, err
	}

	// Prepare the stoppable HTTP server
	server := &http.Server{
		Addr:              cfg.addr(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	hd := &httpdown.HTTP{
		StopTimeout: cfg.StopTimeout,
		KillTimeout: cfg.KillTimeout,
	}

	flag.StringVar(&server.Addr, "addr", server.Addr, "http service address")
	flag.DurationVar(&hd.StopTimeout, "stop-timeout", hd.StopTimeout, "stop timeout")
	flag.DurationVar(&hd.KillTimeout, "kill-timeout", hd.KillTimeout, "kill timeout")
	flag.DurationVar(&cfg.MetricsTick, "metrics.tick", cfg.MetricsTick, "metrics: duration between reports")
	flag.StringVar(&cfg.Origin, "origin", cfg.Origin, "websocket server checks Origin headers against this scheme://host[:port], or * for any")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "directory holding the web client")
	flag.Parse()
	if err := cfg.validate(); err != nil {
		return exitConfig, err
	}

	log := newLogger(os.Stdout, cfg)
	h := newHub(log)
	go h.run()

	startMetrics(cfg.MetricsTick)
	defer finalMetrics()

	// Start the server
	server.Handler = newHandler(cfg, h, log)
	log.Info("server.listening", "addr", server.Addr, "static", cfg.StaticDir)
	if err := httpdown.ListenAndServe(server, hd); err != nil {
		return exitRuntime, fmt.Errorf("serve: %w", err)
	}

	// Hijacked websockets outlive the HTTP server.
	h.stop()
	log.Info("server.stopped")
	return exitOK, nil
}

func newHandler(cfg config, h *hub, log *slog.Logger) http.Handler {
	handler := mux.NewRouter()

	// Route websocket requests, on any path
	handler.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return websocket.IsWebSocketUpgrade(r)
	}).Handler(newWsHandler(h, cfg, log))

	// Route everything else to the web client
	handler.Methods(http.MethodGet, http.MethodHead).Handler(newGetHandler(cfg.StaticDir))

	return handler
}
