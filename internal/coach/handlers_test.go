package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FitAICoach/internal/aigateway"
	"FitAICoach/internal/models"
	"FitAICoach/internal/planparser"
	"FitAICoach/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	completion  string
	planErr     error
	imageURL    string
	imageErr    error
	quote       string
	quoteErr    error
	lastProfile models.UserProfile
	lastImage   models.ImageRequest
	planCalls   int
}

func (s *stubGenerator) GeneratePlan(_ context.Context, _ *zerolog.Logger, profile models.UserProfile) (models.Plan, error) {
	s.planCalls++
	s.lastProfile = profile
	if s.planErr != nil {
		return models.Plan{}, s.planErr
	}
	return planparser.Parse(s.completion), nil
}

func (s *stubGenerator) GenerateImage(_ context.Context, _ *zerolog.Logger, req models.ImageRequest) (string, error) {
	s.lastImage = req
	return s.imageURL, s.imageErr
}

func (s *stubGenerator) GenerateQuote(_ context.Context, _ *zerolog.Logger) (string, error) {
	return s.quote, s.quoteErr
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = utility.RequestValidator{}
	return e
}

func doPost(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

const samBody = `{"userData":{"name":"Sam","age":30,"gender":"male","height":180,"weight":80,"fitnessGoal":"muscle-gain","fitnessLevel":"intermediate","workoutLocation":"gym","dietaryPreference":"non-vegetarian"}}`

func TestGeneratePlanHandlerScenario(t *testing.T) {
	gen := &stubGenerator{completion: "# WORKOUT PLAN\nSquats 3x10\n# DIET PLAN\nChicken and rice\n# TIPS & MOTIVATION\nStay consistent"}
	rec := doPost(t, NewHandler(gen).GeneratePlanHandler, samBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.Plan{Workout: "Squats 3x10", Diet: "Chicken and rice", Tips: "Stay consistent"}, resp.Plan)
	assert.Equal(t, "Sam", gen.lastProfile.Name)
	assert.Equal(t, 180.0, gen.lastProfile.HeightCm)
}

func TestGeneratePlanHandlerAcceptsFormStrings(t *testing.T) {
	body := `{"userData":{"name":"Sam","age":"30","gender":"male","height":"180","weight":"80","fitnessGoal":"muscle-gain","fitnessLevel":"intermediate","workoutLocation":"gym","dietaryPreference":"non-vegetarian"}}`
	gen := &stubGenerator{completion: "# WORKOUT PLAN\nSquats 3x10"}
	rec := doPost(t, NewHandler(gen).GeneratePlanHandler, body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, gen.planCalls)
	assert.Equal(t, 30, gen.lastProfile.Age)
	assert.Equal(t, 180.0, gen.lastProfile.HeightCm)
	assert.Equal(t, 80.0, gen.lastProfile.WeightKg)
}

func TestGeneratePlanHandlerRejectsInvalidProfile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"userData":`},
		{name: "missing userData", body: `{}`},
		{name: "missing required field", body: `{"userData":{"name":"Sam","age":30,"gender":"male","height":180,"weight":80}}`},
		{name: "bad enum", body: strings.Replace(samBody, `"gym"`, `"space"`, 1)},
		{name: "non-numeric height", body: strings.Replace(samBody, `"height":180`, `"height":"tall"`, 1)},
		{name: "empty weight string", body: strings.Replace(samBody, `"weight":80`, `"weight":""`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{}
			rec := doPost(t, NewHandler(gen).GeneratePlanHandler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, gen.planCalls)
		})
	}
}

func TestGeneratePlanHandlerErrorStatuses(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "rate limited",
			err:         models.ErrorForStatus(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Rate limit exceeded. Please try again later.",
		},
		{
			name:        "payment required",
			err:         models.ErrorForStatus(http.StatusPaymentRequired, "Payment required. Please add credits to your workspace."),
			wantStatus:  http.StatusPaymentRequired,
			wantMessage: "Payment required. Please add credits to your workspace.",
		},
		{
			name:        "upstream failure",
			err:         models.ErrorForStatus(http.StatusBadGateway, "AI Gateway error: 502"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "AI Gateway error: 502",
		},
		{
			name:        "not configured",
			err:         aigateway.ErrNotConfigured,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "AI_GATEWAY_API_KEY is not configured",
		},
		{
			name:        "unexpected error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPost(t, NewHandler(&stubGenerator{planErr: tt.err}).GeneratePlanHandler, samBody)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["error"])
			assert.NotContains(t, rec.Body.String(), `"plan"`)
		})
	}
}

func TestGenerateImageHandler(t *testing.T) {
	gen := &stubGenerator{imageURL: "data:image/png;base64,AAAA"}
	rec := doPost(t, NewHandler(gen).GenerateImageHandler, `{"prompt":"- Bench press 4x8","type":"exercise"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"imageUrl":"data:image/png;base64,AAAA"}`, rec.Body.String())
	assert.Equal(t, models.ImageRequest{Prompt: "- Bench press 4x8", Type: models.CategoryExercise}, gen.lastImage)
}

func TestGenerateImageHandlerValidation(t *testing.T) {
	rec := doPost(t, NewHandler(&stubGenerator{}).GenerateImageHandler, `{"prompt":"- Oats","type":"dessert"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doPost(t, NewHandler(&stubGenerator{}).GenerateImageHandler, `{"type":"meal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateImageHandlerQuota(t *testing.T) {
	gen := &stubGenerator{imageErr: models.ErrorForStatus(http.StatusPaymentRequired, "Payment required. Please add credits to your workspace.")}
	rec := doPost(t, NewHandler(gen).GenerateImageHandler, `{"prompt":"- Oats","type":"meal"}`)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestGenerateMotivationHandler(t *testing.T) {
	rec := doPost(t, NewHandler(&stubGenerator{quote: "Show up."}).GenerateMotivationHandler, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"quote":"Show up."}`, rec.Body.String())

	rec = doPost(t, NewHandler(&stubGenerator{quoteErr: models.ErrorForStatus(429, "slow down")}).GenerateMotivationHandler, `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
