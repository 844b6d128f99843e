// Package imagemodal holds the state of the on-demand image viewer. Only the
// most recent request may change what the modal shows.
package imagemodal

import (
	"context"
	"errors"
	"sync"

	"FitAICoach/internal/models"
	"github.com/rs/zerolog/log"
)

// Phase of the modal content.
type Phase int

const (
	Closed Phase = iota
	Pending
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "closed"
}

// User-visible failure messages.
const (
	MsgRateLimited   = "Rate limit exceeded for image generation."
	MsgQuotaExceeded = "Please add credits for image generation."
	MsgFailed        = "Failed to generate image"
)

// FailureMessage maps an image request error onto the message shown to the user.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, models.ErrQuotaExceeded):
		return MsgQuotaExceeded
	}
	return MsgFailed
}

// Fetcher issues one image-generation request.
type Fetcher interface {
	GenerateImage(ctx context.Context, prompt string, category models.ImageCategory) (string, error)
}

// View is what the modal currently displays.
type View struct {
	Phase    Phase
	Title    string
	Category models.ImageCategory
	ImageURL string
	Message  string
}

// Open reports whether the modal is visible.
func (v View) Open() bool {
	return v.Phase != Closed
}

// Listener is called on the modal goroutine after every settled request
// (Ready or Failed). Stale results never reach it.
type Listener func(View)

type requestMsg struct {
	ctx      context.Context
	line     string
	category models.ImageCategory
	reply    chan struct{}
}

type closeMsg struct{ reply chan struct{} }

type viewMsg struct{ reply chan View }

type resultMsg struct {
	generation uint64
	url        string
	err        error
}

// Modal serializes every state change through one goroutine.
type Modal struct {
	fetcher  Fetcher
	listener Listener

	msgs         chan interface{}
	quit         chan struct{}
	stopped      chan struct{}
	shutdownOnce sync.Once
	inflight     sync.WaitGroup
}

// New starts the modal goroutine. listener may be nil.
func New(fetcher Fetcher, listener Listener) *Modal {
	m := &Modal{
		fetcher:  fetcher,
		listener: listener,
		msgs:     make(chan interface{}),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go m.run()
	return m
}

// Request opens the modal in Pending for line and fetches its image in the
// background. An earlier request still in flight is not cancelled; its
// result is discarded when it arrives.
func (m *Modal) Request(ctx context.Context, line string, category models.ImageCategory) {
	reply := make(chan struct{})
	if m.send(requestMsg{ctx: ctx, line: line, category: category, reply: reply}) {
		<-reply
	}
}

// Close hides the modal and discards every pending result.
func (m *Modal) Close() {
	reply := make(chan struct{})
	if m.send(closeMsg{reply: reply}) {
		<-reply
	}
}

// View returns the current modal content.
func (m *Modal) View() View {
	reply := make(chan View, 1)
	if !m.send(viewMsg{reply: reply}) {
		return View{}
	}
	return <-reply
}

// Wait blocks until every fetch started so far has been delivered to the
// modal goroutine.
func (m *Modal) Wait() {
	m.inflight.Wait()
}

// Shutdown stops the modal goroutine. Results still in flight are dropped.
func (m *Modal) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.quit)
	})
	<-m.stopped
}

func (m *Modal) send(msg interface{}) bool {
	select {
	case m.msgs <- msg:
		return true
	case <-m.quit:
		return false
	}
}

func (m *Modal) run() {
	defer close(m.stopped)

	var (
		generation uint64
		view       View
	)

	for {
		select {
		case <-m.quit:
			return

		case msg := <-m.msgs:
			switch r := msg.(type) {
			case requestMsg:
				generation++
				view = View{Phase: Pending, Title: r.line, Category: r.category}
				m.fetch(r.ctx, generation, r.line, r.category)
				close(r.reply)

			case closeMsg:
				generation++
				view = View{}
				close(r.reply)

			case viewMsg:
				r.reply <- view

			case resultMsg:
				if r.generation != generation {
					log.Debug().Uint64("generation", r.generation).Msg("Discarding stale image result")
					continue
				}
				if r.err != nil {
					view.Phase = Failed
					view.Message = FailureMessage(r.err)
					log.Debug().Err(r.err).Str("title", view.Title).Msg("Image request failed")
				} else {
					view.Phase = Ready
					view.ImageURL = r.url
				}
				if m.listener != nil {
					m.listener(view)
				}
			}
		}
	}
}

func (m *Modal) fetch(ctx context.Context, generation uint64, line string, category models.ImageCategory) {
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		url, err := m.fetcher.GenerateImage(ctx, line, category)
		select {
		case m.msgs <- resultMsg{generation: generation, url: url, err: err}:
		case <-m.quit:
		}
	}()
}
