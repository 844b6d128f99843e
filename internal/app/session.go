// Package app holds the client-side application state and turns every
// outcome into a user notification.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"FitAICoach/internal/imagemodal"
	"FitAICoach/internal/models"
	"FitAICoach/internal/pdfexport"
	"FitAICoach/internal/planstore"
	"FitAICoach/internal/voice"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Notification texts.
const (
	MsgPlanReady         = "Your personalized plan is ready!"
	MsgPlanRateLimited   = "Rate limit exceeded. Please try again in a moment."
	MsgPlanQuotaExceeded = "Please add credits to continue using AI features."
	MsgPlanFailed        = "Failed to generate plan. Please try again."

	MsgLoaded      = "Loaded your previous plan"
	MsgNoSaved     = "No saved plan found"
	MsgRegenerate  = "Ready to generate a new plan"
	MsgStopped     = "Stopped reading"
	MsgUnsupported = "Text-to-speech not supported on this system"
	MsgReadFailed  = "Failed to read plan aloud"

	MsgExported     = "PDF exported successfully!"
	MsgExportFailed = "Failed to export PDF"

	MsgQuoteFailed = "Failed to generate motivation quote"
	FallbackQuote  = "Your only limit is you. Push harder today!"
)

// ErrNoPlan is returned by actions that need a current plan.
var ErrNoPlan = errors.New("no plan loaded")

// ErrBusy is returned when a plan submission is already in flight.
var ErrBusy = errors.New("plan generation already in progress")

// PlanClient talks to the hosted endpoints.
type PlanClient interface {
	imagemodal.Fetcher
	GeneratePlan(ctx context.Context, profile models.UserProfile) (models.Plan, error)
	GenerateQuote(ctx context.Context) (string, error)
}

// Notifier shows notices to the user. It may be called from any goroutine.
type Notifier interface {
	Notify(models.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(models.Notice)

func (f NotifierFunc) Notify(n models.Notice) { f(n) }

// Options wires a Session.
type Options struct {
	Client   PlanClient
	Store    *planstore.Store
	Engine   voice.Engine // defaults to voice.NewExecEngine()
	Notifier Notifier
	// Fs receives exported PDFs. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Session is the application state: current plan (via the store), voice
// playback, the image modal and the quote banner.
type Session struct {
	client   PlanClient
	store    *planstore.Store
	notifier Notifier
	fs       afero.Fs
	voice    *voice.Controller
	modal    *imagemodal.Modal

	mu         sync.Mutex
	quote      string
	generating bool
	voiceErr   error
}

func NewSession(opts Options) *Session {
	s := &Session{
		client:   opts.Client,
		store:    opts.Store,
		notifier: opts.Notifier,
		fs:       opts.Fs,
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(models.Notice) {})
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	engine := opts.Engine
	if engine == nil {
		engine = voice.NewExecEngine()
	}
	s.voice = voice.NewController(engine, s.onVoiceEvent)
	s.modal = imagemodal.New(opts.Client, s.onImageSettled)
	return s
}

// Close stops playback and the modal goroutine.
func (s *Session) Close() {
	s.voice.Close()
	s.modal.Shutdown()
}

func (s *Session) notify(level models.Level, msg string) {
	s.notifier.Notify(models.Notice{Level: level, Message: msg})
}

// Bootstrap runs the startup work concurrently: the motivational quote and,
// when loadSaved is set, the saved plan.
func (s *Session) Bootstrap(ctx context.Context, loadSaved bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.RefreshQuote(gctx)
		return nil
	})

	if loadSaved {
		g.Go(func() error {
			s.LoadSaved()
			return nil
		})
	}

	return g.Wait()
}

// RefreshQuote fetches a new quote, falling back to a fixed line on failure.
func (s *Session) RefreshQuote(ctx context.Context) string {
	quote, err := s.client.GenerateQuote(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Quote request failed")
		s.notify(models.LevelError, MsgQuoteFailed)
		quote = FallbackQuote
	}
	s.mu.Lock()
	s.quote = quote
	s.mu.Unlock()
	return quote
}

// Quote returns the last fetched quote.
func (s *Session) Quote() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// Plan returns the current plan, if any.
func (s *Session) Plan() (models.Plan, bool) {
	return s.store.Current()
}

// Submit requests a plan for profile. On success the plan becomes current
// and is persisted; on failure nothing changes.
func (s *Session) Submit(ctx context.Context, profile models.UserProfile) (models.Plan, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return models.Plan{}, ErrBusy
	}
	s.generating = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	plan, err := s.client.GeneratePlan(ctx, profile)
	if err != nil {
		log.Debug().Err(err).Msg("Plan request failed")
		s.notify(models.LevelError, planFailureMessage(err))
		return models.Plan{}, err
	}

	if err := s.store.Save(plan); err != nil {
		log.Warn().Err(err).Msg("Plan generated but could not be saved")
	}
	s.notify(models.LevelSuccess, MsgPlanReady)
	return plan, nil
}

func planFailureMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return MsgPlanRateLimited
	case errors.Is(err, models.ErrQuotaExceeded):
		return MsgPlanQuotaExceeded
	}
	return MsgPlanFailed
}

// LoadSaved replaces the current plan with the persisted one.
func (s *Session) LoadSaved() (models.Plan, bool) {
	plan, found := s.store.Load()
	if !found {
		s.notify(models.LevelInfo, MsgNoSaved)
		return models.Plan{}, false
	}
	s.notify(models.LevelSuccess, MsgLoaded)
	return plan, true
}

// Regenerate drops the current plan so a new one can be requested. The
// persisted copy is untouched.
func (s *Session) Regenerate() {
	s.store.Clear()
	s.notify(models.LevelInfo, MsgRegenerate)
}

// ReadAloud speaks one section of the current plan, preempting any reading
// already in progress.
func (s *Session) ReadAloud(section models.Section) error {
	plan, ok := s.store.Current()
	if !ok {
		return ErrNoPlan
	}
	text := plan.Text(section)
	if text == "" {
		return fmt.Errorf("%s section is empty", section)
	}

	if err := s.voice.Read(section, text); err != nil {
		if errors.Is(err, models.ErrUnsupported) {
			s.notify(models.LevelError, MsgUnsupported)
		} else {
			s.notify(models.LevelError, MsgReadFailed)
		}
		return err
	}
	s.notify(models.LevelSuccess, fmt.Sprintf("Reading %s plan aloud", section))
	return nil
}

// StopReading cancels playback. Nothing happens when idle.
func (s *Session) StopReading() {
	if s.voice.State() == voice.Idle {
		return
	}
	s.voice.Stop()
	s.notify(models.LevelInfo, MsgStopped)
}

// Voice reports the playback status.
func (s *Session) Voice() voice.Status {
	return s.voice.Status()
}

// WaitForVoice blocks until playback has finished. It returns the engine
// error when the latest reading ended in failure.
func (s *Session) WaitForVoice(ctx context.Context) error {
	if err := s.voice.Wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceErr
}

func (s *Session) onVoiceEvent(e voice.Event) {
	s.mu.Lock()
	switch {
	case e.State == voice.Loading:
		s.voiceErr = nil
	case e.Err != nil:
		s.voiceErr = e.Err
	}
	s.mu.Unlock()

	if e.Err != nil {
		s.notify(models.LevelError, MsgReadFailed)
	}
}

// ShowImage opens the modal for one clicked line.
func (s *Session) ShowImage(ctx context.Context, line string, category models.ImageCategory) {
	s.modal.Request(ctx, line, category)
}

// CloseImage hides the modal and discards any pending result.
func (s *Session) CloseImage() {
	s.modal.Close()
}

// Image returns the modal content.
func (s *Session) Image() imagemodal.View {
	return s.modal.View()
}

// WaitForImages blocks until every image request has settled.
func (s *Session) WaitForImages() {
	s.modal.Wait()
}

func (s *Session) onImageSettled(v imagemodal.View) {
	if v.Phase == imagemodal.Failed {
		s.notify(models.LevelError, v.Message)
	}
}

// ExportPDF writes the current plan to path.
func (s *Session) ExportPDF(path string) error {
	plan, ok := s.store.Current()
	if !ok {
		return ErrNoPlan
	}
	if path == "" {
		path = pdfexport.DefaultFileName
	}

	if err := pdfexport.WriteFile(s.fs, path, plan); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("PDF export failed")
		s.notify(models.LevelError, MsgExportFailed)
		return err
	}
	s.notify(models.LevelSuccess, MsgExported)
	return nil
}
