// Package coach exposes the plan, image and motivation endpoints.
package coach

import (
	"context"
	"errors"
	"net/http"

	"FitAICoach/internal/aigateway"
	"FitAICoach/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// PlanRequest is the body of the plan-generation endpoint.
type PlanRequest struct {
	UserData *models.UserProfile `json:"userData" validate:"required"`
}

// PlanResponse wraps the three parsed sections.
type PlanResponse struct {
	Plan models.Plan `json:"plan"`
}

// ImageResponse carries the generated image reference.
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// QuoteResponse carries one motivational line.
type QuoteResponse struct {
	Quote string `json:"quote"`
}

// Generator is the upstream side of every endpoint.
type Generator interface {
	GeneratePlan(ctx context.Context, log *zerolog.Logger, profile models.UserProfile) (models.Plan, error)
	GenerateImage(ctx context.Context, log *zerolog.Logger, req models.ImageRequest) (string, error)
	GenerateQuote(ctx context.Context, log *zerolog.Logger) (string, error)
}

// Handler serves the AI endpoints.
type Handler struct {
	gen Generator
}

func NewHandler(gen Generator) *Handler {
	return &Handler{gen: gen}
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// GeneratePlanHandler validates the profile, asks the gateway for a plan and
// returns the parsed sections. No partial plan is ever returned.
func (h *Handler) GeneratePlanHandler(c echo.Context) error {
	logger := requestLogger(c)

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind plan request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logger.Info().
		Str("goal", req.UserData.FitnessGoal).
		Str("level", req.UserData.FitnessLevel).
		Msg("Processing plan request")

	plan, err := h.gen.GeneratePlan(c.Request().Context(), logger, *req.UserData)
	if err != nil {
		logger.Error().Err(err).Msg("Error in generate-plan")
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, PlanResponse{Plan: plan})
}

// GenerateImageHandler returns an image for one clicked plan line.
func (h *Handler) GenerateImageHandler(c echo.Context) error {
	logger := requestLogger(c)

	var req models.ImageRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind image request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	url, err := h.gen.GenerateImage(c.Request().Context(), logger, req)
	if err != nil {
		logger.Error().Err(err).Str("type", string(req.Type)).Msg("Error in generate-image")
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, ImageResponse{ImageURL: url})
}

// GenerateMotivationHandler returns a fresh motivational quote.
func (h *Handler) GenerateMotivationHandler(c echo.Context) error {
	logger := requestLogger(c)

	quote, err := h.gen.GenerateQuote(c.Request().Context(), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Error in generate-motivation")
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, QuoteResponse{Quote: quote})
}

/*=================================================================================
								HELPER FUNCTIONS
=================================================================================*/

// errorResponse keeps 429 and 402 distinguishable for the client; every other
// failure is a 500 carrying the error message.
func errorResponse(c echo.Context, err error) error {
	status := models.StatusFor(err)

	message := err.Error()
	var statusErr *models.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		message = statusErr.Message
	}
	if errors.Is(err, aigateway.ErrNotConfigured) {
		message = aigateway.ErrNotConfigured.Error()
	}

	return c.JSON(status, map[string]string{"error": message})
}

// requestLogger returns the request-scoped logger set by the server middleware,
// or the global logger when running without it.
func requestLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &log.Logger
}
