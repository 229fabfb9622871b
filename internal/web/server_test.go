package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const readTimeout = 5 * time.Second

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestServer(t *testing.T, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(Config{TickRate: 60, Seed: 42, Game: config.Default()}, store, log.New(io.Discard))
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	t.Cleanup(srv.Close)
	return srv, hs
}

func dial(t *testing.T, hs *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// envelope holds any server message.
type envelope struct {
	Type    string          `json:"type"`
	Frame   FrameState      `json:"frame"`
	Effects []EffectMessage `json:"effects"`
	Message string          `json:"message"`
}

func readMessage(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("decode %s: %v", payload, err)
	}
	return env
}

// readUntil reads messages until match returns true and returns the effect
// kinds seen along the way.
func readUntil(t *testing.T, conn *websocket.Conn, match func(envelope) bool) (envelope, []string) {
	t.Helper()
	var kinds []string
	for range 1000 {
		env := readMessage(t, conn)
		for _, e := range env.Effects {
			kinds = append(kinds, e.Kind)
		}
		if match(env) {
			return env, kinds
		}
	}
	t.Fatal("expected message never arrived")
	return envelope{}, nil
}

func TestInitialFrame(t *testing.T) {
	_, hs := newTestServer(t, nil)
	conn := dial(t, hs)

	env := readMessage(t, conn)
	if env.Type != TypeFrame {
		t.Fatalf("first message type = %q, want frame", env.Type)
	}
	if env.Frame.Phase != "not_started" {
		t.Errorf("phase = %q, want not_started", env.Frame.Phase)
	}
	if env.Frame.Field.Width != 420 || env.Frame.Field.Height != 600 {
		t.Errorf("field = %vx%v, want 420x600", env.Frame.Field.Width, env.Frame.Field.Height)
	}
	if env.Frame.Seed != 42 {
		t.Errorf("seed = %d, want 42", env.Frame.Seed)
	}
}

func TestHelloSizesField(t *testing.T) {
	_, hs := newTestServer(t, nil)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeHello, Width: 390, Height: 844})
	env, _ := readUntil(t, conn, func(e envelope) bool {
		return e.Type == TypeFrame && e.Frame.Field.Width == 358
	})

	if env.Frame.Field.Height != 506 {
		t.Errorf("field height = %v, want 506", env.Frame.Field.Height)
	}
	if env.Frame.Phase != "not_started" {
		t.Errorf("phase = %q, want not_started", env.Frame.Phase)
	}
}

func TestHelloKeepsRunningGame(t *testing.T) {
	store := openTestStore(t)
	_, hs := newTestServer(t, store)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	before, _ := readUntil(t, conn, func(e envelope) bool { return e.Frame.Frames > 3 })

	sendJSON(t, conn, ClientMessage{Type: TypeHello, Width: 390, Height: 844})
	after, _ := readUntil(t, conn, func(e envelope) bool { return e.Frame.Frames > before.Frame.Frames+3 })

	if after.Frame.Phase != "running" {
		t.Errorf("phase = %q after resize, expected running", after.Frame.Phase)
	}
	if after.Frame.Field.Width != 420 {
		t.Errorf("field width = %v, expected the running game to keep 420", after.Frame.Field.Width)
	}
	if runs, _ := store.RecentRuns(10); len(runs) != 0 {
		t.Errorf("resize journalled %d runs, expected none", len(runs))
	}
}

func TestFlapStartsGame(t *testing.T) {
	_, hs := newTestServer(t, nil)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	env, kinds := readUntil(t, conn, func(e envelope) bool {
		return e.Frame.Phase == "running" && e.Frame.Frames > 0
	})

	if env.Frame.Bird.Velocity >= 0 {
		t.Errorf("bird should be rising right after the flap, velocity %v", env.Frame.Bird.Velocity)
	}
	if len(kinds) < 2 || kinds[0] != "swoosh" || kinds[1] != "wing" {
		t.Errorf("effects = %v, want swoosh then wing", kinds)
	}
}

func TestMalformedMessageKeepsSession(t *testing.T) {
	_, hs := newTestServer(t, nil)
	conn := dial(t, hs)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	env, _ := readUntil(t, conn, func(e envelope) bool { return e.Type == TypeError })
	if !strings.Contains(env.Message, "bad message") {
		t.Errorf("error message = %q", env.Message)
	}

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	readUntil(t, conn, func(e envelope) bool { return e.Frame.Phase == "running" })
}

func TestRestartWhileRunningIsRejected(t *testing.T) {
	_, hs := newTestServer(t, nil)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	sendJSON(t, conn, ClientMessage{Type: TypeRestart})

	env, _ := readUntil(t, conn, func(e envelope) bool { return e.Type == TypeError })
	if !strings.Contains(env.Message, "restart while running") {
		t.Errorf("error message = %q", env.Message)
	}
}

func TestGameOverIsJournalled(t *testing.T) {
	store := openTestStore(t)
	_, hs := newTestServer(t, store)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	env, kinds := readUntil(t, conn, func(e envelope) bool { return e.Frame.Phase == "over" })

	if env.Frame.Cause != "ground" {
		t.Errorf("cause = %q, want ground", env.Frame.Cause)
	}
	var dead *EffectMessage
	for _, e := range env.Effects {
		if e.Kind == "dead" {
			dead = &e
		}
	}
	if dead == nil || dead.DelayMs != 500 {
		t.Errorf("expected a dead effect delayed 500ms, effects %v, all %v", env.Effects, kinds)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 journalled run, got %d", len(runs))
	}
	run := runs[0].Run
	if run.Cause != replay.CauseGround || run.Frames != env.Frame.Frames {
		t.Errorf("run = %s after %d frames, want ground after %d", run.Cause, run.Frames, env.Frame.Frames)
	}
	if _, err := replay.Replay(run, 0); err != nil {
		t.Errorf("journalled run does not replay: %v", err)
	}

	// Restarting after the game is over starts a fresh game.
	sendJSON(t, conn, ClientMessage{Type: TypeRestart})
	env, _ = readUntil(t, conn, func(e envelope) bool { return e.Frame.Phase == "not_started" })
	if env.Frame.Frames != 0 || env.Frame.Score != 0 {
		t.Errorf("restart left frames=%d score=%d", env.Frame.Frames, env.Frame.Score)
	}
}

func TestDisconnectJournalsAbandonedRun(t *testing.T) {
	store := openTestStore(t)
	srv, hs := newTestServer(t, store)
	conn := dial(t, hs)

	sendJSON(t, conn, ClientMessage{Type: TypeFlap})
	readUntil(t, conn, func(e envelope) bool { return e.Frame.Frames > 3 })
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(readTimeout)
	for srv.Sessions() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := srv.Sessions(); n != 0 {
		t.Fatalf("expected session to end, %d still live", n)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Run.Cause != replay.CauseAbandoned {
		t.Fatalf("expected one abandoned run, got %+v", runs)
	}
}

func TestCloseEndsSessions(t *testing.T) {
	srv, hs := newTestServer(t, nil)
	conn := dial(t, hs)
	readMessage(t, conn)

	if srv.Sessions() != 1 {
		t.Fatalf("expected 1 live session, got %d", srv.Sessions())
	}
	srv.Close()
	if srv.Sessions() != 0 {
		t.Errorf("expected no live sessions after Close, got %d", srv.Sessions())
	}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("expected going-away close, got %v", err)
			}
			break
		}
	}
}

func TestTrackRefusedAfterClose(t *testing.T) {
	srv, hs := newTestServer(t, nil)
	cfg := Config{TickRate: 60, Seed: 1, Game: config.Default()}

	session := NewSession("web-live", nil, cfg, nil, log.New(io.Discard))
	if !srv.track(session) {
		t.Fatal("track refused a session on a live server")
	}
	srv.untrack(session)

	srv.Close()

	if srv.track(NewSession("web-late", nil, cfg, nil, log.New(io.Discard))) {
		t.Error("track accepted a session after Close")
	}
	if n := srv.Sessions(); n != 0 {
		t.Errorf("expected no live sessions, got %d", n)
	}

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("dial succeeded after Close")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after Close, got %v", resp)
	}
	if resp != nil {
		resp.Body.Close()
	}
}

// upgradedPair returns both ends of a websocket connection.
func upgradedPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(hs.Close)

	client = dial(t, hs)
	select {
	case server = <-conns:
	case <-time.After(readTimeout):
		t.Fatal("server side never upgraded")
	}
	t.Cleanup(func() { server.Close() })
	return server, client
}

func TestReaderStopsWhenSessionEnds(t *testing.T) {
	serverConn, client := upgradedPair(t)
	cfg := Config{TickRate: 60, Seed: 1, Game: config.Default()}
	session := NewSession("web-reader", serverConn, cfg, nil, log.New(io.Discard))

	// A full command buffer and a finished Run leave nobody to receive.
	for range commandBuffer {
		session.commands <- inbound{}
	}
	close(session.done)
	go session.readLoop()

	sendJSON(t, client, ClientMessage{Type: TypeFlap})

	select {
	case <-session.readDone:
	case <-time.After(readTimeout):
		t.Fatal("reader still blocked after the session ended")
	}
}

func TestIndexAndSchemaRoutes(t *testing.T) {
	_, hs := newTestServer(t, nil)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html; charset=utf-8", "<canvas"},
		{"/schema.json", "application/schema+json", `"ClientMessage"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(hs.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}

	resp, err := http.Get(hs.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status for unknown path = %d, want 404", resp.StatusCode)
	}
}
