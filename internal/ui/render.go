package ui

import (
	"fmt"
	"strings"

	"FitAICoach/internal/imagemodal"
	"FitAICoach/internal/models"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns plan state into terminal blocks.
type Renderer struct {
	Theme Theme
	Width int
}

func NewRenderer(theme Theme, width int) *Renderer {
	return &Renderer{Theme: theme, Width: width}
}

// SectionTitle is the badge text of each card.
func SectionTitle(s models.Section) string {
	switch s {
	case models.SectionWorkout:
		return "Workout Plan"
	case models.SectionDiet:
		return "Diet Plan"
	case models.SectionTips:
		return "Tips & Motivation"
	}
	return string(s)
}

func (r *Renderer) sectionColor(s models.Section) lipgloss.Color {
	switch s {
	case models.SectionWorkout:
		return r.Theme.Primary
	case models.SectionDiet:
		return r.Theme.Secondary
	}
	return r.Theme.Accent
}

// Plan renders one card per non-empty section. Clickable lines are numbered
// in the order returned by Items so the user can pick one by number.
func (r *Renderer) Plan(plan models.Plan) string {
	var (
		blocks []string
		item   int
	)

	blocks = append(blocks, lipgloss.NewStyle().Bold(true).Foreground(r.Theme.Primary).Render("Your Personalized Plan"))

	for _, section := range []models.Section{models.SectionWorkout, models.SectionDiet, models.SectionTips} {
		text := plan.Text(section)
		if text == "" {
			continue
		}

		_, clickable := models.CategoryFor(section)
		var body []string
		for _, line := range SplitLines(text) {
			switch {
			case line.Clickable && clickable:
				item++
				body = append(body, fmt.Sprintf("%s %s", r.Theme.subtle().Render(fmt.Sprintf("%2d.", item)), r.Theme.text().Render(line.Text)))
			case line.Heading:
				body = append(body, r.Theme.heading().Render(line.Text))
			default:
				body = append(body, "    "+r.Theme.text().Render(line.Text))
			}
		}

		content := r.Theme.badge(r.sectionColor(section)).Render(SectionTitle(section)) + "\n\n" + strings.Join(body, "\n")
		style := r.Theme.card(r.sectionColor(section))
		if r.Width > 0 {
			style = style.Width(r.Width)
		}
		blocks = append(blocks, style.Render(content))
	}

	return strings.Join(blocks, "\n")
}

// Modal renders the image viewer. A closed modal renders as nothing.
func (r *Renderer) Modal(v imagemodal.View) string {
	if !v.Open() {
		return ""
	}

	var body string
	switch v.Phase {
	case imagemodal.Pending:
		body = r.Theme.subtle().Render("Generating image...")
	case imagemodal.Ready:
		body = r.Theme.text().Render(ImageReference(v.ImageURL))
	case imagemodal.Failed:
		body = lipgloss.NewStyle().Foreground(r.Theme.Error).Render(v.Message)
	}

	title := r.Theme.heading().Render(strings.TrimSpace(v.Title))
	return r.Theme.card(r.Theme.Accent).Render(title + "\n" + body)
}

// ImageReference shortens inline data URLs for display.
func ImageReference(url string) string {
	if strings.HasPrefix(url, "data:") {
		head, _, _ := strings.Cut(url, ",")
		return fmt.Sprintf("%s,... (%d bytes)", head, len(url))
	}
	return url
}

// Notice renders a one-line notification.
func (r *Renderer) Notice(n models.Notice) string {
	icon, color := "ℹ", r.Theme.Accent
	switch n.Level {
	case models.LevelSuccess:
		icon, color = "✓", r.Theme.Success
	case models.LevelError:
		icon, color = "✗", r.Theme.Error
	}
	return lipgloss.NewStyle().Foreground(color).Render(icon) + " " + n.Message
}

// Quote renders the motivational banner.
func (r *Renderer) Quote(quote string) string {
	return lipgloss.NewStyle().Italic(true).Foreground(r.Theme.Accent).Render(fmt.Sprintf("“%s”", quote))
}
