package web

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = time.Second

// client is a websocket connection with its own writer goroutine. Slow clients lose messages instead of
// blocking the scheduler.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, 8),
	}
}

func (c *client) offer(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) writeLoop(done <-chan struct{}) {
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				slog.Error("error writing to the websocket", slog.Any("error", err))
				return
			}
		case <-done:
			return
		}
	}
}

func (server *Server) register(set map[*client]struct{}, c *client) {
	server.clientsMu.Lock()
	defer server.clientsMu.Unlock()

	set[c] = struct{}{}
}

func (server *Server) unregister(set map[*client]struct{}, c *client) {
	server.clientsMu.Lock()
	defer server.clientsMu.Unlock()

	delete(set, c)
}

func (server *Server) broadcast(set map[*client]struct{}, msg []byte) {
	server.clientsMu.Lock()
	defer server.clientsMu.Unlock()

	for c := range set {
		c.offer(msg)
	}
}
