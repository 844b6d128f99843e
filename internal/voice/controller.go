// Package voice reads plan sections aloud, one session at a time.
package voice

import (
	"context"
	"errors"
	"sync"

	"FitAICoach/internal/models"
	"github.com/rs/zerolog/log"
)

// State of the playback controller.
type State int

const (
	Idle State = iota
	Loading
	Playing
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	}
	return "idle"
}

// Engine produces audio. Speak blocks until the utterance is finished or ctx
// is cancelled and must not return before the audio has stopped. started is
// called once, when sound actually begins.
type Engine interface {
	Available() bool
	Speak(ctx context.Context, text string, started func()) error
}

// Status is a snapshot of the controller.
type Status struct {
	State   State
	Section models.Section
}

// Event is emitted on every state transition. Err is set when the engine
// failed; a cancelled session finishes without an error.
type Event struct {
	Status
	Err error
}

// Listener receives events on the controller goroutine. It must not call back
// into the controller synchronously.
type Listener func(Event)

var ErrClosed = errors.New("voice controller closed")

type session struct {
	id      uint64
	section models.Section
	cancel  context.CancelFunc
	done    chan struct{}
}

type readMsg struct {
	section models.Section
	text    string
	reply   chan error
}

type stopMsg struct{ reply chan struct{} }

type statusMsg struct{ reply chan Status }

type waitMsg struct{ reply chan struct{} }

type startedMsg struct{ id uint64 }

type finishedMsg struct {
	id  uint64
	err error
}

// Controller owns the single active voice session. All state lives on one
// goroutine and is changed only by messages.
type Controller struct {
	engine   Engine
	listener Listener

	msgs      chan interface{}
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewController starts the controller goroutine. listener may be nil.
func NewController(engine Engine, listener Listener) *Controller {
	c := &Controller{
		engine:   engine,
		listener: listener,
		msgs:     make(chan interface{}),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Read cancels any active session, waits for the engine to go silent and then
// starts speaking text. It returns once the new session is Loading.
func (c *Controller) Read(section models.Section, text string) error {
	reply := make(chan error, 1)
	if !c.send(readMsg{section: section, text: text, reply: reply}) {
		return ErrClosed
	}
	return <-reply
}

// Stop cancels the active session. It is a no-op when Idle.
func (c *Controller) Stop() {
	reply := make(chan struct{})
	if c.send(stopMsg{reply: reply}) {
		<-reply
	}
}

// Status returns the current state and the section being read.
func (c *Controller) Status() Status {
	reply := make(chan Status, 1)
	if !c.send(statusMsg{reply: reply}) {
		return Status{State: Idle}
	}
	return <-reply
}

// State returns the current state.
func (c *Controller) State() State {
	return c.Status().State
}

// Wait blocks until the controller is Idle or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	reply := make(chan struct{})
	if !c.send(waitMsg{reply: reply}) {
		return nil
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops any playback and the controller goroutine.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	<-c.stopped
}

func (c *Controller) send(msg interface{}) bool {
	select {
	case c.msgs <- msg:
		return true
	case <-c.quit:
		return false
	}
}

func (c *Controller) run() {
	defer close(c.stopped)

	var (
		current *session
		nextID  uint64
		status  = Status{State: Idle}
		waiters []chan struct{}
	)

	transition := func(s Status, err error) {
		status = s
		if c.listener != nil {
			c.listener(Event{Status: s, Err: err})
		}
		if s.State == Idle {
			for _, w := range waiters {
				close(w)
			}
			waiters = nil
		}
	}

	// halt cancels the active session and blocks until its engine call returned.
	halt := func() {
		if current == nil {
			return
		}
		current.cancel()
		<-current.done
		current = nil
	}

	for {
		select {
		case <-c.quit:
			halt()
			for _, w := range waiters {
				close(w)
			}
			return

		case msg := <-c.msgs:
			switch m := msg.(type) {
			case readMsg:
				if !c.engine.Available() {
					m.reply <- models.ErrUnsupported
					continue
				}
				if current != nil {
					log.Debug().Str("section", string(current.section)).Msg("Preempting voice session")
					halt()
				}
				nextID++
				current = c.start(nextID, m.section, m.text)
				transition(Status{State: Loading, Section: m.section}, nil)
				m.reply <- nil

			case stopMsg:
				if current != nil {
					halt()
					transition(Status{State: Idle}, nil)
				}
				close(m.reply)

			case statusMsg:
				m.reply <- status

			case waitMsg:
				if status.State == Idle {
					close(m.reply)
				} else {
					waiters = append(waiters, m.reply)
				}

			case startedMsg:
				if current != nil && m.id == current.id && status.State == Loading {
					transition(Status{State: Playing, Section: current.section}, nil)
				}

			case finishedMsg:
				if current == nil || m.id != current.id {
					continue
				}
				current = nil
				if m.err != nil {
					log.Warn().Err(m.err).Msg("Voice playback failed")
				}
				transition(Status{State: Idle}, m.err)
			}
		}
	}
}

// start launches the engine for one session. The engine goroutine closes done
// before reporting back, so halt can wait on done without deadlocking the loop.
func (c *Controller) start(id uint64, section models.Section, text string) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{id: id, section: section, cancel: cancel, done: make(chan struct{})}

	go func() {
		started := func() {
			select {
			case c.msgs <- startedMsg{id: id}:
			case <-ctx.Done():
			case <-c.quit:
			}
		}
		err := c.engine.Speak(ctx, text, started)
		if ctx.Err() != nil {
			err = nil
		}
		cancel()
		close(s.done)

		select {
		case c.msgs <- finishedMsg{id: id, err: err}:
		case <-c.quit:
		}
	}()
	return s
}
