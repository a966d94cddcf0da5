package testutil

import (
	"context"
	"sync"

	"calorie-log/internal/cal"
)

// StubEstimator returns canned estimates and records every call.
type StubEstimator struct {
	mu sync.Mutex

	Estimates   map[string]*cal.Estimate // keyed by description
	Default     *cal.Estimate            // used when no key matches
	Correction  *cal.Correction
	Err         error
	Calls       []string // descriptions passed to Estimate
	Corrections [][2]string
}

// NewStubEstimator creates a StubEstimator that answers 100 calories for
// anything it has not been told about.
func NewStubEstimator() *StubEstimator {
	return &StubEstimator{
		Estimates: make(map[string]*cal.Estimate),
		Default: &cal.Estimate{
			Items:         []cal.Item{{Name: "Food", Calories: 100}},
			TotalCalories: 100,
		},
	}
}

// Set registers the estimate returned for description.
func (s *StubEstimator) Set(description string, items ...cal.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Estimates[description] = &cal.Estimate{Items: items, TotalCalories: cal.SumItems(items)}
}

func (s *StubEstimator) Estimate(_ context.Context, description string) (*cal.Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, description)
	if s.Err != nil {
		return nil, s.Err
	}
	if est, ok := s.Estimates[description]; ok {
		return est, nil
	}
	return s.Default, nil
}

func (s *StubEstimator) EstimateCorrection(_ context.Context, original, instruction string) (*cal.Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Corrections = append(s.Corrections, [2]string{original, instruction})
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Correction != nil {
		return s.Correction, nil
	}
	return &cal.Correction{
		CorrectedDescription: instruction,
		Items:                s.Default.Items,
		TotalCalories:        s.Default.TotalCalories,
	}, nil
}

// CallCount returns the number of Estimate plus EstimateCorrection calls.
func (s *StubEstimator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls) + len(s.Corrections)
}

var _ cal.Estimator = (*StubEstimator)(nil)
