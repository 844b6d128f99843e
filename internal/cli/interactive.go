package cli

import (
	"errors"
	"fmt"

	"FitAICoach/internal/models"
	"FitAICoach/internal/ui"
	"FitAICoach/internal/voice"
	"github.com/spf13/cobra"
)

type menuAction int

const (
	actionRead menuAction = iota
	actionStop
	actionImage
	actionCloseImage
	actionExport
	actionRegenerate
	actionGenerate
	actionLoad
	actionQuote
	actionQuit
)

type menuEntry struct {
	label   string
	action  menuAction
	section models.Section
}

// menu lists the actions available for the current session state.
func menu(e *env) []menuEntry {
	plan, ok := e.session.Plan()
	if !ok {
		return []menuEntry{
			{label: "Generate a new plan", action: actionGenerate},
			{label: "Load saved plan", action: actionLoad},
			{label: "New motivation quote", action: actionQuote},
			{label: "Quit", action: actionQuit},
		}
	}

	var entries []menuEntry
	for _, s := range []models.Section{models.SectionWorkout, models.SectionDiet, models.SectionTips} {
		if plan.Text(s) != "" {
			entries = append(entries, menuEntry{label: "Read " + ui.SectionTitle(s) + " aloud", action: actionRead, section: s})
		}
	}
	if e.session.Voice().State != voice.Idle {
		entries = append(entries, menuEntry{label: "Stop reading", action: actionStop})
	}
	if len(ui.Items(plan)) > 0 {
		entries = append(entries, menuEntry{label: "View an item image", action: actionImage})
	}
	if e.session.Image().Open() {
		entries = append(entries, menuEntry{label: "Close image", action: actionCloseImage})
	}
	return append(entries,
		menuEntry{label: "Export PDF", action: actionExport},
		menuEntry{label: "Regenerate", action: actionRegenerate},
		menuEntry{label: "Quit", action: actionQuit},
	)
}

// runSession drives the interactive menu until the user quits.
func runSession(cmd *cobra.Command, e *env) error {
	for {
		entries := menu(e)
		labels := make([]string, len(entries))
		for i, entry := range entries {
			labels[i] = entry.label
		}

		idx, err := e.prompter.Choose("What next", labels)
		if errors.Is(err, ui.ErrCancelled) {
			e.session.StopReading()
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			return fmt.Errorf("invalid menu choice %d", idx)
		}

		entry := entries[idx]
		switch entry.action {
		case actionQuit:
			e.session.StopReading()
			return nil

		case actionRead:
			_ = e.session.ReadAloud(entry.section)

		case actionStop:
			e.session.StopReading()

		case actionImage:
			if err := pickImage(cmd, e); err != nil && !errors.Is(err, ui.ErrCancelled) {
				return err
			}

		case actionCloseImage:
			e.session.CloseImage()

		case actionExport:
			_ = e.session.ExportPDF("")

		case actionRegenerate:
			e.session.Regenerate()

		case actionGenerate:
			profile, err := ui.Wizard{Prompter: e.prompter, AskOptional: true}.Run(models.UserProfile{})
			if errors.Is(err, ui.ErrCancelled) {
				continue
			}
			if err != nil {
				e.println(e.renderer.Notice(models.Notice{Level: models.LevelError, Message: err.Error()}))
				continue
			}
			if plan, err := e.session.Submit(cmd.Context(), profile); err == nil {
				e.println(e.renderer.Plan(plan))
			}

		case actionLoad:
			if plan, ok := e.session.LoadSaved(); ok {
				e.println(e.renderer.Plan(plan))
			}

		case actionQuote:
			e.println(e.renderer.Quote(e.session.RefreshQuote(cmd.Context())))
		}
	}
}

// pickImage lets the user choose a clickable line and shows its image once
// it has settled. A newer pick replaces any request still in flight.
func pickImage(cmd *cobra.Command, e *env) error {
	plan, _ := e.session.Plan()
	items := ui.Items(plan)

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Text
	}
	idx, err := e.prompter.Choose("Which item", labels)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("invalid item %d", idx)
	}

	item := items[idx]
	e.session.ShowImage(cmd.Context(), item.Text, item.Category)
	e.println(e.renderer.Modal(e.session.Image()))
	e.session.WaitForImages()
	e.println(e.renderer.Modal(e.session.Image()))
	return nil
}
