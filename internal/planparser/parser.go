// Package planparser splits the model's single text completion into the three
// plan sections using literal header markers.
package planparser

import (
	"strings"

	"FitAICoach/internal/models"
)

// Section markers. The prompt sent upstream is built from these same constants;
// changing one without the other silently degrades every plan to empty sections.
const (
	HeaderWorkout = "# WORKOUT PLAN"
	HeaderDiet    = "# DIET PLAN"
	HeaderTips    = "# TIPS & MOTIVATION"
)

// Headers lists the markers in the order the model is asked to emit them.
var Headers = []string{HeaderWorkout, HeaderDiet, HeaderTips}

// Parse slices text into a Plan. A section runs from the line after its header
// up to the next later header that appears after it, or to the end of text.
// Missing headers yield empty sections; no headers at all yields an empty plan.
// Parse never fails.
func Parse(text string) models.Plan {
	sections := make([]string, len(Headers))

	for i, header := range Headers {
		start, ok := headerEnd(text, header)
		if !ok {
			continue
		}

		end := len(text)
		for _, next := range Headers[i+1:] {
			if idx := strings.Index(text[start:], next); idx >= 0 && start+idx < end {
				end = start + idx
			}
		}

		sections[i] = strings.TrimSpace(text[start:end])
	}

	return models.Plan{
		Workout: sections[0],
		Diet:    sections[1],
		Tips:    sections[2],
	}
}

// headerEnd finds the first occurrence of header that ends its line and
// returns the offset just past it.
func headerEnd(text, header string) (int, bool) {
	offset := 0
	for {
		idx := strings.Index(text[offset:], header)
		if idx < 0 {
			return 0, false
		}
		end := offset + idx + len(header)
		if end == len(text) || text[end] == '\n' || text[end] == '\r' {
			return end, true
		}
		offset = end
	}
}
