// Package web is the browser driver: an HTTP server that hands out a canvas
// client and runs one simulation per websocket connection.
package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// Message types on the wire.
const (
	TypeHello   = "hello"
	TypeFlap    = "flap"
	TypeRestart = "restart"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// ErrBadMessage is wrapped by every client message decoding failure.
var ErrBadMessage = errors.New("web: bad message")

// ClientMessage is sent by the browser. Width and Height are the viewport
// size and only matter for hello.
type ClientMessage struct {
	Type   string  `json:"type" jsonschema:"required,enum=hello,enum=flap,enum=restart"`
	Width  float64 `json:"width,omitempty" jsonschema:"description=Viewport width in CSS pixels"`
	Height float64 `json:"height,omitempty" jsonschema:"description=Viewport height in CSS pixels"`
}

// FrameMessage carries the world state after a step plus the effects raised
// since the previous frame.
type FrameMessage struct {
	Type    string          `json:"type" jsonschema:"required,enum=frame"`
	Frame   FrameState      `json:"frame" jsonschema:"required"`
	Effects []EffectMessage `json:"effects"`
}

// ErrorMessage reports a rejected client message. The session stays open.
type ErrorMessage struct {
	Type    string `json:"type" jsonschema:"required,enum=error"`
	Message string `json:"message" jsonschema:"required"`
}

// EffectMessage is the wire form of flappy.Effect.
type EffectMessage struct {
	Kind    string `json:"kind" jsonschema:"required,enum=hit,enum=dead,enum=scored,enum=swoosh,enum=wing"`
	Frame   int    `json:"frame"`
	DelayMs int64  `json:"delayMs"`
}

// FrameState is the wire form of flappy.Snapshot.
type FrameState struct {
	Phase     string            `json:"phase" jsonschema:"required,enum=not_started,enum=running,enum=over"`
	Cause     string            `json:"cause,omitempty" jsonschema:"enum=ground,enum=obstacle"`
	Bird      flappy.Bird       `json:"bird"`
	Obstacles []flappy.Obstacle `json:"obstacles"`
	Score     int               `json:"score"`
	Frames    int               `json:"frames"`
	Seed      int64             `json:"seed"`

	Field         flappy.Geometry `json:"field"`
	Slot          flappy.Slot     `json:"slot"`
	BirdWidth     float64         `json:"birdWidth"`
	BirdHeight    float64         `json:"birdHeight"`
	ObstacleWidth float64         `json:"obstacleWidth"`
	GapHeight     float64         `json:"gapHeight"`
}

// NewFrameState converts a snapshot to its wire form.
func NewFrameState(s flappy.Snapshot) FrameState {
	fs := FrameState{
		Phase:         s.Phase.String(),
		Bird:          s.Bird,
		Obstacles:     s.Obstacles,
		Score:         s.Score,
		Frames:        s.Frames,
		Seed:          s.Seed,
		Field:         s.Field,
		Slot:          s.Slot,
		BirdWidth:     s.BirdWidth,
		BirdHeight:    s.BirdHeight,
		ObstacleWidth: s.ObstacleWidth,
		GapHeight:     s.GapHeight,
	}
	if s.Cause != flappy.CauseNone {
		fs.Cause = s.Cause.String()
	}
	if fs.Obstacles == nil {
		fs.Obstacles = []flappy.Obstacle{}
	}
	return fs
}

// NewFrameMessage builds a frame message from a snapshot and drained effects.
func NewFrameMessage(s flappy.Snapshot, effects []flappy.Effect) FrameMessage {
	msg := FrameMessage{
		Type:    TypeFrame,
		Frame:   NewFrameState(s),
		Effects: make([]EffectMessage, 0, len(effects)),
	}
	for _, e := range effects {
		msg.Effects = append(msg.Effects, EffectMessage{
			Kind:    e.Kind.String(),
			Frame:   e.Frame,
			DelayMs: e.Delay.Milliseconds(),
		})
	}
	return msg
}

// DecodeClientMessage parses and checks one message from the browser.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}

	switch msg.Type {
	case TypeFlap, TypeRestart:
		return msg, nil
	case TypeHello:
		if msg.Width <= 0 || msg.Height <= 0 {
			return ClientMessage{}, fmt.Errorf("%w: hello needs a positive viewport, got %vx%v", ErrBadMessage, msg.Width, msg.Height)
		}
		return msg, nil
	case "":
		return ClientMessage{}, fmt.Errorf("%w: missing type", ErrBadMessage)
	default:
		return ClientMessage{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, msg.Type)
	}
}
