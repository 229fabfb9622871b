package web

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const (
	writeWait       = 10 * time.Second
	maxMessageSize  = 1024
	commandBuffer   = 64
	defaultTickRate = 60
)

// inbound is one decoded message, or the reason it was rejected.
type inbound struct {
	msg ClientMessage
	err error
}

// Session runs one game for one websocket connection. Only the Run
// goroutine touches the world and writes to the socket; the reader goroutine
// hands messages over through a buffered channel, so commands land between
// steps.
type Session struct {
	id     string
	conn   *websocket.Conn
	world  *flappy.World
	field  config.FlappyField
	store  *storage.Store
	logger *log.Logger

	tickRate int
	commands chan inbound
	readDone chan struct{}
	done     chan struct{} // Closed when Run returns

	journalled bool
	dirty      bool
}

// NewSession prepares a session. The world starts on the largest configured
// field until the client says hello with its viewport.
func NewSession(id string, conn *websocket.Conn, cfg Config, store *storage.Store, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	rate := cfg.TickRate
	if rate <= 0 {
		rate = defaultTickRate
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	field := cfg.Game.Field
	geom := flappy.Geometry{Width: field.MaxWidth, Height: field.MaxHeight, GroundHeight: field.GroundHeight}

	return &Session{
		id:       id,
		conn:     conn,
		world:    flappy.NewWorld(flappy.ParamsFromConfig(cfg.Game), geom, seed),
		field:    field,
		store:    store,
		logger:   logger.With("session", id),
		tickRate: rate,
		commands: make(chan inbound, commandBuffer),
		readDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run is the authoritative loop. It returns when the client disconnects or
// ctx is cancelled; an unfinished game is journalled as abandoned.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	go s.readLoop()

	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()

	s.dirty = true
	for {
		select {
		case <-ctx.Done():
			s.journal()
			s.close(websocket.CloseGoingAway, "server shutting down")
			return nil

		case <-s.readDone:
			s.journal()
			return nil

		case in := <-s.commands:
			if err := s.apply(in); err != nil {
				s.journal()
				return err
			}

		case <-ticker.C:
			if err := s.tick(); err != nil {
				s.journal()
				return err
			}
		}
	}
}

// readLoop decodes client messages until the connection fails or Run
// returns.
func (s *Session) readLoop() {
	defer close(s.readDone)
	s.conn.SetReadLimit(maxMessageSize)

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}

		msg, err := DecodeClientMessage(payload)
		select {
		case s.commands <- inbound{msg: msg, err: err}:
		case <-s.done:
			return
		}
	}
}

// apply handles one client message between steps.
func (s *Session) apply(in inbound) error {
	if in.err != nil {
		s.logger.Debug("rejected message", "error", in.err)
		return s.send(ErrorMessage{Type: TypeError, Message: in.err.Error()})
	}

	switch in.msg.Type {
	case TypeHello:
		// A game in progress keeps its field until the next restart.
		geom := flappy.FieldForViewport(s.field, in.msg.Width, in.msg.Height)
		s.world.Resize(geom)
		s.logger.Debug("hello", "viewport", [2]float64{in.msg.Width, in.msg.Height}, "field", [2]float64{geom.Width, geom.Height})

	case TypeFlap:
		s.world.Flap()

	case TypeRestart:
		if err := s.world.Restart(); err != nil {
			return s.send(ErrorMessage{Type: TypeError, Message: err.Error()})
		}
		s.journalled = false
	}

	s.dirty = true
	return nil
}

// tick steps a running world and pushes a frame when anything changed.
func (s *Session) tick() error {
	if s.world.Phase() == flappy.PhaseRunning {
		s.world.Step()
		s.dirty = true
		if s.world.Phase() == flappy.PhaseOver {
			s.journal()
		}
	}
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return s.send(NewFrameMessage(s.world.Snapshot(), s.world.Effects()))
}

// journal saves the current game once. Games without a single frame are
// not worth keeping.
func (s *Session) journal() {
	if s.journalled || s.store == nil || s.world.Frames() == 0 {
		return
	}
	s.journalled = true

	run := replay.Capture(s.world)
	id, err := s.store.SaveRun(run)
	if err != nil {
		s.logger.Warn("could not journal run", "error", err)
		return
	}
	s.logger.Info("run journalled", "id", id, "score", run.Score, "frames", run.Frames, "cause", run.Cause)
}

func (s *Session) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Session) close(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
