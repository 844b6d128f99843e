package ui

import (
	"strings"

	"FitAICoach/internal/models"
)

// Line is one non-blank line of a rendered section.
type Line struct {
	Text      string
	Heading   bool
	Clickable bool
}

// SplitLines breaks a section into its non-blank lines. A line is clickable
// when it contains a dash or a bullet and renders as a heading when it starts
// with '#'. Text is kept verbatim.
func SplitLines(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, Line{
			Text:      raw,
			Heading:   strings.HasPrefix(raw, "#"),
			Clickable: strings.Contains(raw, "-") || strings.Contains(raw, "•"),
		})
	}
	return lines
}

// Item is a clickable line together with the image category it requests.
type Item struct {
	Section  models.Section
	Category models.ImageCategory
	Text     string
}

// Items lists the clickable lines of the workout and diet sections in
// display order. Tips never produce image requests.
func Items(plan models.Plan) []Item {
	var items []Item
	for _, section := range []models.Section{models.SectionWorkout, models.SectionDiet} {
		category, _ := models.CategoryFor(section)
		for _, line := range SplitLines(plan.Text(section)) {
			if line.Clickable {
				items = append(items, Item{Section: section, Category: category, Text: line.Text})
			}
		}
	}
	return items
}
