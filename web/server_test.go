package web

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/chip8"
)

type recordingController struct {
	keypad  chip8.Keypad
	pauses  int
	quitted bool
}

func (c *recordingController) KeyDown(k byte) { c.keypad[k] = true }
func (c *recordingController) KeyUp(k byte)   { c.keypad[k] = false }
func (c *recordingController) TogglePause()   { c.pauses++ }
func (c *recordingController) RequestQuit()   { c.quitted = true }

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf(`Dial(%s) returned an error %v`, url, err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// pollUntil polls the server until cond holds or a second elapsed
func pollUntil(t *testing.T, server *Server, ctl *recordingController, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf(`condition not met in time`)
		}
		if err := server.Poll(ctl); err != nil {
			t.Fatalf(`Poll() returned an error %v`, err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDisplayStreamsFrames(t *testing.T) {
	server := NewServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	var screen chip8.Screen
	screen[0] = true
	screen[chip8.ScreenWidth+1] = true
	if err := server.Render(screen, chip8.NewConfig()); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}

	conn := dial(t, ts, "/display")
	conn.SetReadDeadline(time.Now().Add(time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf(`ReadMessage() returned an error %v`, err)
	}

	if kind != websocket.BinaryMessage || len(msg) != 8+256 {
		t.Fatalf(`got a message of type %d and %d bytes, expected a binary frame of 264 bytes`, kind, len(msg))
	}
	if fg := binary.BigEndian.Uint32(msg[0:]); fg != uint32(chip8.DefaultForeground) {
		t.Fatalf(`foreground = %08X`, fg)
	}
	if bg := binary.BigEndian.Uint32(msg[4:]); bg != uint32(chip8.DefaultBackground) {
		t.Fatalf(`background = %08X`, bg)
	}
	if msg[8] != 0x80 || msg[8+8] != 0x40 {
		t.Fatalf(`unexpected bitmap %08b %08b`, msg[8], msg[16])
	}
}

func TestDisplayReceivesKeys(t *testing.T) {
	server := NewServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/display")
	ctl := &recordingController{}

	// out of range keys are dropped
	if err := conn.WriteJSON(event{Type: eventKeyDown, Key: 0x10}); err != nil {
		t.Fatalf(`WriteJSON() returned an error %v`, err)
	}
	if err := conn.WriteJSON(event{Type: eventKeyDown, Key: 0x5}); err != nil {
		t.Fatalf(`WriteJSON() returned an error %v`, err)
	}
	pollUntil(t, server, ctl, func() bool { return ctl.keypad[0x5] })

	if err := conn.WriteJSON(event{Type: eventKeyUp, Key: 0x5}); err != nil {
		t.Fatalf(`WriteJSON() returned an error %v`, err)
	}
	pollUntil(t, server, ctl, func() bool { return !ctl.keypad[0x5] })

	if err := conn.WriteJSON(event{Type: eventPause}); err != nil {
		t.Fatalf(`WriteJSON() returned an error %v`, err)
	}
	pollUntil(t, server, ctl, func() bool { return ctl.pauses == 1 })
}

func TestControlEndpoints(t *testing.T) {
	server := NewServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	for _, path := range []string{"/pause", "/quit"} {
		res, err := http.Post(ts.URL+path, "text/plain", nil)
		if err != nil {
			t.Fatalf(`POST %s returned an error %v`, path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf(`POST %s = %d`, path, res.StatusCode)
		}
	}

	ctl := &recordingController{}
	if err := server.Poll(ctl); err != nil {
		t.Fatalf(`Poll() returned an error %v`, err)
	}
	if ctl.pauses != 1 || !ctl.quitted {
		t.Fatalf(`pauses = %d, quitted = %v, expected 1 and true`, ctl.pauses, ctl.quitted)
	}
}

func TestStateAndDebugger(t *testing.T) {
	server := NewServer()
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	cpu := chip8.NewCpu(server, server, chip8.NewDummyBuzzer())
	server.Attach(cpu)
	if err := cpu.LoadProgram([]byte{0x6A, 0x42, 0x12, 0x02}); err != nil {
		t.Fatalf(`LoadProgram() returned an error %v`, err)
	}
	if err := cpu.Boot(); err != nil {
		t.Fatalf(`Boot() returned an error %v`, err)
	}

	debugger := dial(t, ts, "/debugger")
	// the registration happens after the handshake, keep ticking until an update arrives
	got := make(chan []byte, 1)
	go func() {
		_, msg, err := debugger.ReadMessage()
		if err == nil {
			got <- msg
		}
	}()

	var msg []byte
	deadline := time.After(time.Second)
	for msg == nil {
		if err := cpu.Tick(); err != nil {
			t.Fatalf(`Tick() returned an error %v`, err)
		}
		select {
		case msg = <-got:
		case <-deadline:
			t.Fatalf(`no debugger update received`)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if len(msg) != 58 {
		t.Fatalf(`debugger update of %d bytes, expected 58`, len(msg))
	}
	// pc then V registers
	if msg[2] != 0x02 || msg[3] != 0x02 || msg[4+0xA] != 0x42 {
		t.Fatalf(`unexpected debugger update %v`, msg[:20])
	}

	res, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatalf(`GET /state returned an error %v`, err)
	}
	defer res.Body.Close()

	var state stateResponse
	if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
		t.Fatalf(`decoding the state: %v`, err)
	}
	if state.Pc != "0x202" || state.V[0xA] != 0x42 || state.State != "running" || state.Inst != "JP 0x202" {
		t.Fatalf(`unexpected state %+v`, state)
	}
}

func TestIndexIsServed(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf(`GET / returned an error %v`, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf(`GET / = %d`, res.StatusCode)
	}
}

func TestDebuggerCadenceWhilePaused(t *testing.T) {
	server := NewServer(func(config *ServerConfig) {
		config.DebuggerEvery = 2
	})

	cpu := chip8.NewCpu(server, server, chip8.NewDummyBuzzer())
	server.Attach(cpu)
	if err := cpu.LoadProgram([]byte{0x12, 0x00}); err != nil {
		t.Fatalf(`LoadProgram() returned an error %v`, err)
	}
	if err := cpu.Boot(); err != nil {
		t.Fatalf(`Boot() returned an error %v`, err)
	}

	// the writer goroutine is not started, updates pile up in the queue
	c := newClient(nil)
	server.register(server.debuggers, c)

	cpu.TogglePause()
	for i := 0; i < 6; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf(`Tick() returned an error %v`, err)
		}
	}

	if len(c.send) != 3 {
		t.Fatalf(`got %d debugger updates in 6 paused ticks, expected 3`, len(c.send))
	}
	if cpu.Ticks() != 0 {
		t.Fatalf(`cpu.Ticks() = %d while paused, expected 0`, cpu.Ticks())
	}
}
