package flappy

import (
	"time"

	"github.com/charmbracelet/log"
)

// EffectKind identifies an observable event raised by the simulation.
type EffectKind int

const (
	EffectHit    EffectKind = iota + 1 // Bird hit the ground or an obstacle
	EffectDead                         // Follows hit after Params.DeathDelay
	EffectScored                       // An obstacle was passed
	EffectSwoosh                       // The game started
	EffectWing                         // The bird flapped
)

// String returns the wire name of the effect.
func (k EffectKind) String() string {
	switch k {
	case EffectHit:
		return "hit"
	case EffectDead:
		return "dead"
	case EffectScored:
		return "scored"
	case EffectSwoosh:
		return "swoosh"
	case EffectWing:
		return "wing"
	default:
		return "unknown"
	}
}

// Effect is a single event descriptor. Sinks decide how to show or play it.
type Effect struct {
	Kind  EffectKind
	Frame int           // World frame the effect was raised on
	Delay time.Duration // How long the sink should wait before presenting it
}

// EffectQueue collects effects raised between two drains.
type EffectQueue struct {
	items []Effect
}

// Push appends an effect.
func (q *EffectQueue) Push(e Effect) {
	q.items = append(q.items, e)
}

// Len returns the number of pending effects.
func (q *EffectQueue) Len() int {
	return len(q.items)
}

// Drain returns the pending effects in the order they were raised and
// empties the queue.
func (q *EffectQueue) Drain() []Effect {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Sink consumes effects after a step has completed.
type Sink interface {
	HandleEffect(e Effect)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Effect)

// HandleEffect calls f(e).
func (f SinkFunc) HandleEffect(e Effect) {
	f(e)
}

// Dispatch hands every effect, in order, to each sink.
func Dispatch(effects []Effect, sinks ...Sink) {
	for _, e := range effects {
		for _, s := range sinks {
			if s != nil {
				s.HandleEffect(e)
			}
		}
	}
}

// LogSink writes effects to a structured logger at debug level.
type LogSink struct {
	Logger *log.Logger
}

// HandleEffect logs the effect.
func (s LogSink) HandleEffect(e Effect) {
	if s.Logger == nil {
		return
	}
	s.Logger.Debug("effect", "kind", e.Kind, "frame", e.Frame, "delay", e.Delay)
}
