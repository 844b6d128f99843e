package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FitAICoach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samProfile() models.UserProfile {
	return models.UserProfile{
		Name:              "Sam",
		Age:               30,
		Gender:            "male",
		HeightCm:          180,
		WeightKg:          80,
		FitnessGoal:       "muscle-gain",
		FitnessLevel:      "intermediate",
		WorkoutLocation:   "gym",
		DietaryPreference: "non-vegetarian",
	}
}

func stubEndpoint(t *testing.T, path string, status int, body string) (*Client, *map[string]interface{}) {
	t.Helper()
	received := map[string]interface{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", APIKey: "anon-key", Timeout: 2 * time.Second}), &received
}

func TestGeneratePlanScenario(t *testing.T) {
	c, received := stubEndpoint(t, "/functions/v1/generate-plan", http.StatusOK,
		`{"plan":{"workout":"Squats 3x10","diet":"Chicken and rice","tips":"Stay consistent"}}`)

	plan, err := c.GeneratePlan(context.Background(), samProfile())
	require.NoError(t, err)
	assert.Equal(t, models.Plan{Workout: "Squats 3x10", Diet: "Chicken and rice", Tips: "Stay consistent"}, plan)

	userData, ok := (*received)["userData"].(map[string]interface{})
	require.True(t, ok, "profile is sent under userData")
	assert.Equal(t, "Sam", userData["name"])
	assert.Equal(t, "muscle-gain", userData["fitnessGoal"])
	assert.NotContains(t, userData, "medicalHistory", "empty optional fields are omitted")
}

func TestGeneratePlanPartialSectionsAreKept(t *testing.T) {
	c, _ := stubEndpoint(t, "/functions/v1/generate-plan", http.StatusOK, `{"plan":{"workout":"Squats","diet":"","tips":""}}`)

	plan, err := c.GeneratePlan(context.Background(), samProfile())
	require.NoError(t, err)
	assert.Equal(t, models.Plan{Workout: "Squats"}, plan)
}

func TestGeneratePlanFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"Rate limit exceeded. Please try again later."}`, wantErr: models.ErrRateLimited},
		{name: "payment required", status: http.StatusPaymentRequired, body: `{"error":"Payment required."}`, wantErr: models.ErrQuotaExceeded},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"AI Gateway error: 500"}`, wantErr: models.ErrGenerationFailed},
		{name: "non json error", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: models.ErrGenerationFailed},
		{name: "missing plan object", status: http.StatusOK, body: `{"result":"ok"}`, wantErr: models.ErrGenerationFailed},
		{name: "undecodable success", status: http.StatusOK, body: `{"plan":`, wantErr: models.ErrGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := stubEndpoint(t, "/functions/v1/generate-plan", tt.status, tt.body)

			plan, err := c.GeneratePlan(context.Background(), samProfile())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, plan.IsEmpty(), "no partial plan on failure")
		})
	}
}

func TestErrorMessageIsCarried(t *testing.T) {
	c, _ := stubEndpoint(t, "/functions/v1/generate-plan", http.StatusTooManyRequests, `{"error":"slow down"}`)

	_, err := c.GeneratePlan(context.Background(), samProfile())
	var statusErr *models.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	assert.Equal(t, "slow down", statusErr.Message)
}

func TestTimeoutIsGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.GeneratePlan(context.Background(), samProfile())
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestUnreachableServerIsGenericFailure(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.GenerateQuote(context.Background())
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestGenerateImage(t *testing.T) {
	c, received := stubEndpoint(t, "/functions/v1/generate-image", http.StatusOK, `{"imageUrl":"https://img.example/squat.png"}`)

	url, err := c.GenerateImage(context.Background(), "- Squats 3x10", models.CategoryExercise)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/squat.png", url)
	assert.Equal(t, "- Squats 3x10", (*received)["prompt"])
	assert.Equal(t, "exercise", (*received)["type"])
}

func TestGenerateImageFailures(t *testing.T) {
	c, _ := stubEndpoint(t, "/functions/v1/generate-image", http.StatusPaymentRequired, `{"error":"Payment required."}`)
	_, err := c.GenerateImage(context.Background(), "- Oats", models.CategoryMeal)
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)

	c, _ = stubEndpoint(t, "/functions/v1/generate-image", http.StatusOK, `{}`)
	_, err = c.GenerateImage(context.Background(), "- Oats", models.CategoryMeal)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestGenerateQuote(t *testing.T) {
	c, _ := stubEndpoint(t, "/functions/v1/generate-motivation", http.StatusOK, `{"quote":"One more rep."}`)

	quote, err := c.GenerateQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "One more rep.", quote)
}
