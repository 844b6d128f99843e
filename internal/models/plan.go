package models

// Section names a part of a Plan.
type Section string

const (
	SectionWorkout Section = "workout"
	SectionDiet    Section = "diet"
	SectionTips    Section = "tips"
)

// ParseSection maps user input onto a known Section.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionWorkout, SectionDiet, SectionTips:
		return Section(s), true
	}
	return "", false
}

// Plan is the generated fitness plan. Any section may be empty, in which case
// it is not rendered at all.
type Plan struct {
	Workout string `json:"workout,omitempty"`
	Diet    string `json:"diet,omitempty"`
	Tips    string `json:"tips,omitempty"`
}

// Text returns the body of one section.
func (p Plan) Text(s Section) string {
	switch s {
	case SectionWorkout:
		return p.Workout
	case SectionDiet:
		return p.Diet
	case SectionTips:
		return p.Tips
	}
	return ""
}

// IsEmpty reports whether no section has content.
func (p Plan) IsEmpty() bool {
	return p.Workout == "" && p.Diet == "" && p.Tips == ""
}

// ImageCategory tags an image request with the kind of plan line it came from.
type ImageCategory string

const (
	CategoryExercise ImageCategory = "exercise"
	CategoryMeal     ImageCategory = "meal"
)

// CategoryFor returns the image category used for clickable lines of a section.
func CategoryFor(s Section) (ImageCategory, bool) {
	switch s {
	case SectionWorkout:
		return CategoryExercise, true
	case SectionDiet:
		return CategoryMeal, true
	}
	return "", false
}

// ImageRequest is the body sent to the image-generation endpoint.
type ImageRequest struct {
	Prompt string        `json:"prompt" validate:"required"`
	Type   ImageCategory `json:"type" validate:"required,oneof=exercise meal"`
}
