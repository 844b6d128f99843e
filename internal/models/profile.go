package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enumerations accepted by the wizard and the plan-generation endpoint.
var (
	Genders            = []string{"male", "female", "other"}
	FitnessGoals       = []string{"weight-loss", "muscle-gain", "general-fitness", "endurance", "flexibility"}
	FitnessLevels      = []string{"beginner", "intermediate", "advanced"}
	WorkoutLocations   = []string{"home", "gym", "outdoor"}
	DietaryPreferences = []string{"vegetarian", "non-vegetarian", "vegan", "keto"}
	StressLevels       = []string{"low", "medium", "high"}
)

// UserProfile is the biometric and lifestyle data collected by the wizard.
// It is transient: built per submission and never persisted.
type UserProfile struct {
	Name              string  `json:"name" validate:"required"`
	Age               int     `json:"age" validate:"gte=0,lte=130"`
	Gender            string  `json:"gender" validate:"required,oneof=male female other"`
	HeightCm          float64 `json:"height" validate:"required,gt=0"`
	WeightKg          float64 `json:"weight" validate:"required,gt=0"`
	FitnessGoal       string  `json:"fitnessGoal" validate:"required,oneof=weight-loss muscle-gain general-fitness endurance flexibility"`
	FitnessLevel      string  `json:"fitnessLevel" validate:"required,oneof=beginner intermediate advanced"`
	WorkoutLocation   string  `json:"workoutLocation" validate:"required,oneof=home gym outdoor"`
	DietaryPreference string  `json:"dietaryPreference" validate:"required,oneof=vegetarian non-vegetarian vegan keto"`
	MedicalHistory    string  `json:"medicalHistory,omitempty"`
	StressLevel       string  `json:"stressLevel,omitempty" validate:"omitempty,oneof=low medium high"`
}

// UnmarshalJSON accepts age, height and weight either as JSON numbers or as
// numeric strings, the way web forms submit them. An empty string is zero.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	aux := struct {
		*plain
		Age    json.RawMessage `json:"age"`
		Height json.RawMessage `json:"height"`
		Weight json.RawMessage `json:"weight"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	age, err := parseNumber("age", aux.Age)
	if err != nil {
		return err
	}
	if age != math.Trunc(age) {
		return fmt.Errorf("age must be a whole number, got %v", age)
	}
	if p.HeightCm, err = parseNumber("height", aux.Height); err != nil {
		return err
	}
	if p.WeightKg, err = parseNumber("weight", aux.Weight); err != nil {
		return err
	}
	p.Age = int(age)
	return nil
}

func parseNumber(field string, raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%s must be a number, got %q", field, s)
		}
		return n, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", field, err)
	}
	return n, nil
}

var validate = validator.New()

// Validator returns the shared validator instance so the HTTP layer can reuse
// the same rules the wizard applies.
func Validator() *validator.Validate {
	return validate
}

// Validate checks every tagged field and joins the failures into one error.
func (p UserProfile) Validate() error {
	return ValidateStruct(p)
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), e.Tag()))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(messages, "; "))
}
