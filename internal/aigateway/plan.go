package aigateway

import (
	"context"
	"fmt"
	"strings"

	"FitAICoach/internal/models"
	"FitAICoach/internal/planparser"
	"github.com/rs/zerolog"
)

// GeneratePlan is the main entry point for plan generation.
// It prompts the gateway with the profile and slices the completion into sections.
func (c *Client) GeneratePlan(ctx context.Context, log *zerolog.Logger, profile models.UserProfile) (models.Plan, error) {
	payload := ChatPayload{
		Model: c.chatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildPlanPrompt(profile)},
		},
	}

	resp, err := c.callGateway(ctx, log, payload)
	if err != nil {
		return models.Plan{}, err
	}

	fullPlan := resp.Choices[0].Message.Content
	plan := planparser.Parse(fullPlan)
	if plan.IsEmpty() {
		// Not a failure: the model ignored the format, so every section is empty.
		log.Warn().Int("length", len(fullPlan)).Msg("Completion contained no section headers")
	}

	return plan, nil
}

// GenerateQuote asks the gateway for one motivational line.
func (c *Client) GenerateQuote(ctx context.Context, log *zerolog.Logger) (string, error) {
	payload := ChatPayload{
		Model: c.chatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: MotivationSystemPrompt},
			{Role: "user", Content: motivationUserPrompt},
		},
	}

	resp, err := c.callGateway(ctx, log, payload)
	if err != nil {
		return "", err
	}

	quote := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`)
	if quote == "" {
		return "", fmt.Errorf("%w: empty quote", models.ErrGenerationFailed)
	}
	return quote, nil
}
