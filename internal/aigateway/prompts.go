package aigateway

import (
	"fmt"
	"strconv"
	"strings"

	"FitAICoach/internal/models"
	"FitAICoach/internal/planparser"
)

/* =================================================================================
						PROMPT ENGINEERING & FORMAT CONTRACT
=================================================================================*/

// SystemPrompt defines the coach persona for plan generation.
const SystemPrompt = `You are an expert fitness and nutrition coach. Generate personalized workout and diet plans based on user information. Be specific, practical, and motivating. Format your response with clear sections.`

/*
UserPromptTemplate is filled with the profile lines, then the format block.
The format block is generated from planparser.Headers so the headers the model
is told to emit are the exact literals the parser looks for.
*/
const UserPromptTemplate = `Generate a comprehensive fitness plan for:
%s

Create:
1. A detailed 7-day workout plan with specific exercises, sets, reps, and rest times
2. A complete daily diet plan with meal breakdowns (breakfast, lunch, dinner, snacks)
3. Lifestyle tips, posture advice, and motivational quotes

Format the response as:
%s`

// MotivationSystemPrompt drives the daily quote.
const MotivationSystemPrompt = `You are an energetic fitness coach. Reply with a single short, original motivational quote about training, health or discipline. No preamble, no attribution, no quotation marks.`

const motivationUserPrompt = `Give me today's motivation.`

// imagePrompts are keyed by category; %s receives the clicked plan line.
var imagePrompts = map[models.ImageCategory]string{
	models.CategoryExercise: "Create a clean, instructional fitness illustration of a person demonstrating this exercise with correct form: %s. Plain background, no text.",
	models.CategoryMeal:     "Create an appetizing, realistic food photograph of this meal, plated and well lit: %s. No text.",
}

// placeholders describe what each section of the response should contain.
var placeholders = map[string]string{
	planparser.HeaderWorkout: "[detailed workout content]",
	planparser.HeaderDiet:    "[detailed diet content]",
	planparser.HeaderTips:    "[tips and motivation]",
}

// BuildPlanPrompt renders the user prompt for a profile. Optional fields are
// omitted when empty.
func BuildPlanPrompt(p models.UserProfile) string {
	lines := []string{
		fmt.Sprintf("- Name: %s", p.Name),
		fmt.Sprintf("- Age: %d, Gender: %s", p.Age, p.Gender),
		fmt.Sprintf("- Height: %scm, Weight: %skg", formatNumber(p.HeightCm), formatNumber(p.WeightKg)),
		fmt.Sprintf("- Fitness Goal: %s", p.FitnessGoal),
		fmt.Sprintf("- Fitness Level: %s", p.FitnessLevel),
		fmt.Sprintf("- Workout Location: %s", p.WorkoutLocation),
		fmt.Sprintf("- Dietary Preference: %s", p.DietaryPreference),
	}
	if medical := strings.TrimSpace(p.MedicalHistory); medical != "" {
		lines = append(lines, fmt.Sprintf("- Medical History: %s", medical))
	}
	if p.StressLevel != "" {
		lines = append(lines, fmt.Sprintf("- Stress Level: %s", p.StressLevel))
	}

	return fmt.Sprintf(UserPromptTemplate, strings.Join(lines, "\n"), formatInstructions())
}

func formatInstructions() string {
	blocks := make([]string, 0, len(planparser.Headers))
	for _, header := range planparser.Headers {
		blocks = append(blocks, header+"\n"+placeholders[header])
	}
	return strings.Join(blocks, "\n\n")
}

// BuildImagePrompt renders the image prompt for a clicked line.
func BuildImagePrompt(req models.ImageRequest) string {
	template, ok := imagePrompts[req.Type]
	if !ok {
		template = "%s"
	}
	return fmt.Sprintf(template, strings.TrimSpace(strings.TrimLeft(req.Prompt, "-•* ")))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
