package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"FitAICoach/internal/models"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts the wizard.
var ErrCancelled = errors.New("cancelled")

// Prompter asks the user for one value at a time.
type Prompter interface {
	Ask(label, defaultValue string, validate func(string) error) (string, error)
	Choose(label string, options []string) (int, error)
}

// TerminalPrompter is the promptui implementation of Prompter.
type TerminalPrompter struct{}

func (TerminalPrompter) Ask(label, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}
	value, err := prompt.Run()
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
		return "", ErrCancelled
	}
	return strings.TrimSpace(value), err
}

func (TerminalPrompter) Choose(label string, options []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: options,
		Size:  len(options),
	}
	idx, _, err := prompt.Run()
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
		return -1, ErrCancelled
	}
	return idx, err
}

// Wizard collects a UserProfile step by step. Fields already set are not
// asked again.
type Wizard struct {
	Prompter Prompter
	// AskOptional also prompts for medical history and stress level.
	AskOptional bool
}

// Run fills in the missing fields of profile and validates the result.
func (w Wizard) Run(profile models.UserProfile) (models.UserProfile, error) {
	// Step 1: basics
	if profile.Name == "" {
		name, err := w.Prompter.Ask("Name", "", required)
		if err != nil {
			return profile, err
		}
		profile.Name = name
	}
	if profile.Age == 0 {
		age, err := w.Prompter.Ask("Age", "", validateAge)
		if err != nil {
			return profile, err
		}
		profile.Age, _ = strconv.Atoi(age)
	}
	if err := w.choose("Gender", models.Genders, &profile.Gender); err != nil {
		return profile, err
	}
	if profile.HeightCm == 0 {
		h, err := w.Prompter.Ask("Height (cm)", "", validatePositive)
		if err != nil {
			return profile, err
		}
		profile.HeightCm, _ = strconv.ParseFloat(h, 64)
	}
	if profile.WeightKg == 0 {
		wt, err := w.Prompter.Ask("Weight (kg)", "", validatePositive)
		if err != nil {
			return profile, err
		}
		profile.WeightKg, _ = strconv.ParseFloat(wt, 64)
	}

	// Step 2: goals
	if err := w.choose("Fitness goal", models.FitnessGoals, &profile.FitnessGoal); err != nil {
		return profile, err
	}
	if err := w.choose("Fitness level", models.FitnessLevels, &profile.FitnessLevel); err != nil {
		return profile, err
	}
	if err := w.choose("Workout location", models.WorkoutLocations, &profile.WorkoutLocation); err != nil {
		return profile, err
	}
	if err := w.choose("Dietary preference", models.DietaryPreferences, &profile.DietaryPreference); err != nil {
		return profile, err
	}

	// Step 3: optional details
	if w.AskOptional {
		if profile.MedicalHistory == "" {
			history, err := w.Prompter.Ask("Medical history (optional)", "", nil)
			if err != nil {
				return profile, err
			}
			profile.MedicalHistory = history
		}
		if profile.StressLevel == "" {
			options := append([]string{"skip"}, models.StressLevels...)
			idx, err := w.Prompter.Choose("Stress level (optional)", options)
			if err != nil {
				return profile, err
			}
			if idx > 0 {
				profile.StressLevel = options[idx]
			}
		}
	}

	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}

func (w Wizard) choose(label string, options []string, field *string) error {
	if *field != "" {
		return nil
	}
	idx, err := w.Prompter.Choose(label, options)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("invalid choice for %s", label)
	}
	*field = options[idx]
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateAge(s string) error {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || age < 0 || age > 130 {
		return errors.New("enter a whole number between 0 and 130")
	}
	return nil
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return errors.New("enter a number greater than zero")
	}
	return nil
}
