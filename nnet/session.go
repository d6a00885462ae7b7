package nnet

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session runs a Network one sample at a time while keeping the state of its Stateful Operators
// between calls. A fresh Session (or one that has just been Reset) starts from zero state; the
// first Step moves it to accumulating state, and Reset moves it back.
//
// A Session borrows its Network for each step, so it is subject to the same restrictions on
// concurrent use. Each Session owns its own state, so several may be used with the same Network
// one after another.
type Session struct {
	id  uuid.UUID
	net *Network

	// state by node id
	states map[int][]float32

	// the number of steps since the last reset
	steps int
}

// NewSession returns a new Session with zero state. The Network must have been finalized.
func (net *Network) NewSession() (*Session, error) {
	if net.stat < finalized {
		return nil, ErrNetNotFinalized
	}

	s := &Session{
		id:     uuid.New(),
		net:    net,
		states: make(map[int][]float32),
	}

	slog.Debug("session started", "session", s.id, "network", net.name, "stateful", net.HasState())
	return s, nil
}

// ID returns the unique identifier of the Session, which is included in its log records
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Network() *Network {
	return s.net
}

// Steps returns the number of steps taken since the Session was created or last Reset
func (s *Session) Steps() int {
	return s.steps
}

// Accumulating returns whether or not the Session holds state from a previous step
func (s *Session) Accumulating() bool {
	return s.steps > 0
}

// Reset zeroes the state of every Stateful Operator. This is done at sequence boundaries, so that
// one video does not leak into the next.
func (s *Session) Reset() {
	for _, st := range s.states {
		for i := range st {
			st[i] = 0
		}
	}

	slog.Debug("session reset", "session", s.id, "network", s.net.name, "steps", s.steps)
	s.steps = 0
}

func (s *Session) stateOf(n *Node, size int) []float32 {
	st, ok := s.states[n.id]
	if !ok {
		st = make([]float32, size)
		s.states[n.id] = st
	}

	return st
}

// Step runs a single sample (for a stateful recurrent network, a single frame) through the
// Network, starting from and then updating the Session's state. It returns the output.
func (s *Session) Step(x []float32) ([]float32, error) {
	net := s.net
	if err := net.checkInput(x, "inputs"); err != nil {
		return nil, err
	}

	net.start(false, s)
	net.forward(x)
	s.steps++

	return append([]float32(nil), net.out().values...), nil
}

// TrainStep runs a single sample through the Network as Step does, then takes one optimizer step
// toward the target. Gradients do not flow back through the state into earlier steps. The
// Network must have been compiled.
func (s *Session) TrainStep(x, y []float32) (Result, error) {
	net := s.net
	if net.stat < compiled {
		return Result{}, ErrNotCompiled
	} else if err := net.checkInput(x, "inputs"); err != nil {
		return Result{}, err
	} else if err := net.checkTarget(y, "targets"); err != nil {
		return Result{}, errors.Wrapf(err, "Session %s", s.id)
	}

	totals := make(map[string]float64)

	net.start(true, s)
	net.forward(x)
	loss := net.backward(y)
	net.score(y, totals)
	net.step(1)
	s.steps++

	return mean(loss, totals, 1), nil
}
