package web

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/chip8"
)

// encodeFrame lays out a frame as the foreground and background colors (big-endian RGBA) followed by
// the packed screen bitmap
func encodeFrame(screen chip8.Screen, config chip8.Config) []byte {
	buf := make([]byte, 8, 8+len(screen)/8)
	binary.BigEndian.PutUint32(buf[0:], uint32(config.Foreground))
	binary.BigEndian.PutUint32(buf[4:], uint32(config.Background))

	return append(buf, screen.Pack()...)
}

// Render implements chip8.Display.
func (server *Server) Render(screen chip8.Screen, config chip8.Config) error {
	frame := encodeFrame(screen, config)

	server.lastMu.Lock()
	changed := !bytes.Equal(frame, server.lastFrame)
	server.lastFrame = frame
	server.lastMu.Unlock()

	if changed {
		server.broadcast(server.displays, frame)
	}

	return nil
}

func (server *Server) serveDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := server.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("connecting to display", slog.String("remote", r.RemoteAddr))

	c := newClient(conn)
	server.lastMu.RLock()
	if server.lastFrame != nil {
		c.offer(server.lastFrame)
	}
	server.lastMu.RUnlock()

	server.register(server.displays, c)
	defer server.unregister(server.displays, c)

	done := make(chan struct{})
	defer close(done)
	go c.writeLoop(done)

	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("error reading from the display", slog.Any("error", err))
			}
			slog.Info("disconnecting from display", slog.String("remote", r.RemoteAddr))
			return
		}

		switch ev.Type {
		case eventKeyDown, eventKeyUp:
			if ev.Key >= chip8.KeyCount {
				continue
			}
		case eventPause, eventQuit:
		default:
			continue
		}

		server.enqueue(ev)
	}
}
