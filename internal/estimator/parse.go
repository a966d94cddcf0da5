package estimator

import (
	"encoding/json"
	"errors"
	"fmt"

	"calorie-log/internal/cal"
)

// response mirrors the JSON the prompts ask for. Pointers distinguish a
// missing field from a zero value.
type response struct {
	CorrectedDescription *string     `json:"corrected_description"`
	Items                *[]cal.Item `json:"items"`
	TotalCalories        *int        `json:"total_calories"`
}

func decode(raw string) (*response, error) {
	text := StripFence(raw)

	var resp response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, &cal.EstimationParseError{Raw: raw, Err: err}
	}
	if resp.Items == nil {
		return nil, &cal.EstimationParseError{Raw: raw, Err: errors.New(`missing "items"`)}
	}
	if resp.TotalCalories == nil {
		return nil, &cal.EstimationParseError{Raw: raw, Err: errors.New(`missing "total_calories"`)}
	}
	for i, item := range *resp.Items {
		if item.Name == "" {
			return nil, &cal.EstimationParseError{Raw: raw, Err: fmt.Errorf("item %d has no name", i)}
		}
	}
	return &resp, nil
}

// ParseEstimate decodes a model response to the estimate prompt.
func ParseEstimate(raw string) (*cal.Estimate, error) {
	resp, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &cal.Estimate{Items: *resp.Items, TotalCalories: *resp.TotalCalories}, nil
}

// ParseCorrection decodes a model response to the correction prompt.
func ParseCorrection(raw string) (*cal.Correction, error) {
	resp, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if resp.CorrectedDescription == nil || *resp.CorrectedDescription == "" {
		return nil, &cal.EstimationParseError{Raw: raw, Err: errors.New(`missing "corrected_description"`)}
	}
	return &cal.Correction{
		CorrectedDescription: *resp.CorrectedDescription,
		Items:                *resp.Items,
		TotalCalories:        *resp.TotalCalories,
	}, nil
}
