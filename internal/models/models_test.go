package models

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() UserProfile {
	return UserProfile{
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

func TestUserProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *UserProfile)
		wantErr bool
	}{
		{name: "complete profile", mutate: func(p *UserProfile) {}},
		{name: "optional fields set", mutate: func(p *UserProfile) {
			p.MedicalHistory = "knee surgery 2019"
			p.StressLevel = "high"
		}},
		{name: "missing name", mutate: func(p *UserProfile) { p.Name = "" }, wantErr: true},
		{name: "negative age", mutate: func(p *UserProfile) { p.Age = -1 }, wantErr: true},
		{name: "zero height", mutate: func(p *UserProfile) { p.HeightCm = 0 }, wantErr: true},
		{name: "zero weight", mutate: func(p *UserProfile) { p.WeightKg = 0 }, wantErr: true},
		{name: "unknown gender", mutate: func(p *UserProfile) { p.Gender = "robot" }, wantErr: true},
		{name: "unknown goal", mutate: func(p *UserProfile) { p.FitnessGoal = "fame" }, wantErr: true},
		{name: "unknown location", mutate: func(p *UserProfile) { p.WorkoutLocation = "moon" }, wantErr: true},
		{name: "unknown diet", mutate: func(p *UserProfile) { p.DietaryPreference = "carnivore" }, wantErr: true},
		{name: "unknown stress level", mutate: func(p *UserProfile) { p.StressLevel = "extreme" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserProfileUnmarshalNumbers(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		age     int
		height  float64
		weight  float64
		wantErr bool
	}{
		{name: "numbers", body: `{"age":30,"height":180,"weight":80.5}`, age: 30, height: 180, weight: 80.5},
		{name: "strings", body: `{"age":"30","height":"180","weight":" 80.5 "}`, age: 30, height: 180, weight: 80.5},
		{name: "empty strings and null", body: `{"age":"","height":null}`},
		{name: "fractional age", body: `{"age":"30.5"}`, wantErr: true},
		{name: "word", body: `{"height":"tall"}`, wantErr: true},
		{name: "not a number string", body: `{"weight":"NaN"}`, wantErr: true},
		{name: "wrong type", body: `{"age":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p UserProfile
			err := json.Unmarshal([]byte(tt.body), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.age, p.Age)
			assert.Equal(t, tt.height, p.HeightCm)
			assert.Equal(t, tt.weight, p.WeightKg)
		})
	}
}

func TestUserProfileUnmarshalKeepsOtherFields(t *testing.T) {
	var p UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sam","age":"30","gender":"male","height":"180","weight":"80","fitnessGoal":"muscle-gain","fitnessLevel":"intermediate","workoutLocation":"gym","dietaryPreference":"non-vegetarian","stressLevel":"low"}`), &p))

	want := validProfile()
	want.StressLevel = "low"
	assert.Equal(t, want, p)
	assert.NoError(t, p.Validate())
}

func TestErrorForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExceeded},
		{http.StatusInternalServerError, ErrGenerationFailed},
		{http.StatusBadRequest, ErrGenerationFailed},
		{0, ErrGenerationFailed},
	}

	for _, tt := range tests {
		err := ErrorForStatus(tt.status, "boom")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Equal(t, tt.status, err.Status)
	}
}

func TestStatusForRoundTrips(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired, http.StatusInternalServerError} {
		assert.Equal(t, status, StatusFor(ErrorForStatus(status, "")))
	}
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("other")))
}

func TestPlanSections(t *testing.T) {
	p := Plan{Workout: "w", Diet: "d"}
	assert.Equal(t, "w", p.Text(SectionWorkout))
	assert.Equal(t, "d", p.Text(SectionDiet))
	assert.Equal(t, "", p.Text(SectionTips))
	assert.False(t, p.IsEmpty())
	assert.True(t, Plan{}.IsEmpty())

	s, ok := ParseSection("diet")
	require.True(t, ok)
	assert.Equal(t, SectionDiet, s)
	_, ok = ParseSection("cardio")
	assert.False(t, ok)

	c, ok := CategoryFor(SectionWorkout)
	require.True(t, ok)
	assert.Equal(t, CategoryExercise, c)
	c, ok = CategoryFor(SectionDiet)
	require.True(t, ok)
	assert.Equal(t, CategoryMeal, c)
	_, ok = CategoryFor(SectionTips)
	assert.False(t, ok)
}
