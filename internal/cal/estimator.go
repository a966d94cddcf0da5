package cal

import "context"

// Estimate is a calorie breakdown for a food description.
type Estimate struct {
	Items         []Item `json:"items"`
	TotalCalories int    `json:"total_calories"`
}

// Correction is a re-estimate of an existing entry after the user amended it.
// CorrectedDescription replaces the stored description.
type Correction struct {
	CorrectedDescription string `json:"corrected_description"`
	Items                []Item `json:"items"`
	TotalCalories        int    `json:"total_calories"`
}

// Estimator turns free text into calorie breakdowns. Responses come from a
// generative model: the same input may produce different numbers, only the
// shape is guaranteed. Failures are *EstimationBackendError or
// *EstimationParseError; nothing is retried.
type Estimator interface {
	// Estimate breaks a description into items with calories.
	Estimate(ctx context.Context, description string) (*Estimate, error)

	// EstimateCorrection applies instruction, either a full replacement or a
	// partial note like "it was one egg not two", to original and re-estimates.
	EstimateCorrection(ctx context.Context, original, instruction string) (*Correction, error)
}
