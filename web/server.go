// Package web serves the console over HTTP. The framebuffer is streamed through a websocket and the
// browser sends back the keypad events.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/chip8"
)

//go:embed static
var static embed.FS

const DefaultPort = 9999

// eventKind of the messages sent by the browser
type eventKind string

const (
	eventKeyDown eventKind = "down"
	eventKeyUp   eventKind = "up"
	eventPause   eventKind = "pause"
	eventQuit    eventKind = "quit"
)

type event struct {
	Type eventKind `json:"type"`
	Key  byte      `json:"key"`
}

type ServerConfig struct {
	// Ticks between two debugger updates
	DebuggerEvery int
	// Pending input events, extra events are dropped
	EventBuffer int
}

type ServerConfigCb func(config *ServerConfig)

// Server implements chip8.Display and chip8.Input
type Server struct {
	config ServerConfig

	upgrader websocket.Upgrader
	events   chan event

	clientsMu sync.Mutex
	displays  map[*client]struct{}
	debuggers map[*client]struct{}

	lastMu    sync.RWMutex
	lastFrame []byte
	snapshot  chip8.Snapshot

	// Ticks seen by the debugger hook, only touched by the scheduler
	ticks uint
}

func NewServer(configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		DebuggerEvery: 1,
		EventBuffer:   64,
	}
	for _, cb := range configs {
		cb(config)
	}

	return &Server{
		config: *config,

		upgrader: websocket.Upgrader{},
		events:   make(chan event, config.EventBuffer),

		clientsMu: sync.Mutex{},
		displays:  map[*client]struct{}{},
		debuggers: map[*client]struct{}{},
	}
}

// Attach registers the debugger hook on the cpu
func (server *Server) Attach(cpu *chip8.Cpu) {
	cpu.AddAfterTickHook(server.afterTick)
}

// Handler returns the routes of the server
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	root, _ := fs.Sub(static, "static")
	mux.Handle("GET /", http.FileServer(http.FS(root)))

	mux.HandleFunc("POST /pause", func(w http.ResponseWriter, r *http.Request) {
		setCommonHeaders(w)
		slog.Info("pause requested")
		server.enqueue(event{Type: eventPause})
	})
	mux.HandleFunc("POST /quit", func(w http.ResponseWriter, r *http.Request) {
		setCommonHeaders(w)
		slog.Info("quit requested")
		server.enqueue(event{Type: eventQuit})
	})
	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		setCommonHeaders(w)
		w.Header().Set("Content-Type", "application/json")

		server.lastMu.RLock()
		snapshot := server.snapshot
		server.lastMu.RUnlock()

		if err := json.NewEncoder(w).Encode(newStateResponse(snapshot)); err != nil {
			slog.Error("error encoding the state", slog.Any("error", err))
		}
	})
	mux.HandleFunc("GET /display", server.serveDisplay)
	mux.HandleFunc("GET /debugger", server.serveDebugger)

	return mux
}

// Listen serves until the context is done
func (server *Server) Listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     server.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("listening", slog.String("addr", addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Boot implements chip8.Display and chip8.Input.
func (server *Server) Boot() error {
	return nil
}

// Poll implements chip8.Input. Events are queued by the connection goroutines and applied here so that
// the cpu is only touched by the scheduler.
func (server *Server) Poll(ctl chip8.Controller) error {
	for {
		select {
		case ev := <-server.events:
			switch ev.Type {
			case eventKeyDown:
				ctl.KeyDown(ev.Key)
			case eventKeyUp:
				ctl.KeyUp(ev.Key)
			case eventPause:
				ctl.TogglePause()
			case eventQuit:
				ctl.RequestQuit()
			}
		default:
			return nil
		}
	}
}

func (server *Server) enqueue(ev event) {
	select {
	case server.events <- ev:
	default:
		slog.Warn("dropping input event", slog.String("type", string(ev.Type)))
	}
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

	w.Header().Set("Cache-Control", "no-cache")
}
