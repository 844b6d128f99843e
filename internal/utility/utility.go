package utility

import "FitAICoach/internal/models"

// RequestValidator plugs the shared struct-tag rules into echo's c.Validate.
type RequestValidator struct{}

func (RequestValidator) Validate(i interface{}) error {
	return models.ValidateStruct(i)
}
