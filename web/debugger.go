package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/guslan/chip8"
)

func (server *Server) afterTick(cpu *chip8.Cpu) {
	snapshot := cpu.Snapshot()

	server.lastMu.Lock()
	server.snapshot = snapshot
	server.lastMu.Unlock()

	// cpu.Ticks() is frozen while paused
	server.ticks++
	if server.config.DebuggerEvery > 0 && server.ticks%uint(server.config.DebuggerEvery) == 0 {
		server.broadcast(server.debuggers, formatAsEvent(snapshot))
	}
}

func (server *Server) serveDebugger(w http.ResponseWriter, r *http.Request) {
	conn, err := server.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("connecting to debugger", slog.String("remote", r.RemoteAddr))

	c := newClient(conn)
	server.register(server.debuggers, c)
	defer server.unregister(server.debuggers, c)

	done := make(chan struct{})
	defer close(done)
	go c.writeLoop(done)

	// the debugger is write only, reading detects the disconnection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			slog.Info("disconnecting from debugger", slog.String("remote", r.RemoteAddr))
			return
		}
	}
}

// formatAsEvent encodes the registers, big-endian
func formatAsEvent(s chip8.Snapshot) []byte {
	buf := make([]byte, 0, 64)

	buf = append(buf, byte((s.Inst.OpCode&0xFF00)>>8))
	buf = append(buf, byte((s.Inst.OpCode&0x00FF)>>0))

	buf = append(buf, byte((s.Pc&0xFF00)>>8))
	buf = append(buf, byte((s.Pc&0x00FF)>>0))
	buf = append(buf, s.V[:]...)
	buf = append(buf, byte((s.I&0xFF00)>>8))
	buf = append(buf, byte((s.I&0x00FF)>>0))
	buf = append(buf, s.Sp)
	for _, b := range s.Stack {
		buf = append(buf, byte((b&0xFF00)>>8))
		buf = append(buf, byte((b&0x00FF)>>0))
	}
	buf = append(buf, s.Dt)
	buf = append(buf, s.St)
	buf = append(buf, byte(s.State))

	return buf
}

type stateResponse struct {
	State  string   `json:"state"`
	Pc     string   `json:"pc"`
	Inst   string   `json:"inst"`
	V      [16]byte `json:"v"`
	I      uint16   `json:"i"`
	Stack  []uint16 `json:"stack"`
	Dt     byte     `json:"dt"`
	St     byte     `json:"st"`
	Cycles uint     `json:"cycles"`
}

func newStateResponse(s chip8.Snapshot) stateResponse {
	return stateResponse{
		State:  s.State.String(),
		Pc:     fmt.Sprintf("0x%03X", s.Pc),
		Inst:   s.Inst.String(),
		V:      s.V,
		I:      s.I,
		Stack:  append([]uint16{}, s.Stack[:s.Sp]...),
		Dt:     s.Dt,
		St:     s.St,
		Cycles: s.Cycles,
	}
}
