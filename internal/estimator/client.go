package estimator

import (
	"context"

	"calorie-log/internal/cal"
)

// Completer sends one system prompt and one user message to a model and
// returns the text of its reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client implements cal.Estimator on top of a Completer. It sends the
// description with a prompt demanding a fixed JSON shape and validates what
// comes back. Nothing is retried.
type Client struct {
	completer Completer
	logger    cal.Logger
}

// NewClient creates a Client using completer for model calls.
func NewClient(completer Completer, logger cal.Logger) *Client {
	return &Client{completer: completer, logger: logger}
}

// Estimate asks the model for a calorie breakdown of description.
func (c *Client) Estimate(ctx context.Context, description string) (*cal.Estimate, error) {
	text, err := c.complete(ctx, estimatePrompt, description)
	if err != nil {
		return nil, err
	}
	return ParseEstimate(text)
}

// EstimateCorrection asks the model to apply instruction to original.
func (c *Client) EstimateCorrection(ctx context.Context, original, instruction string) (*cal.Correction, error) {
	text, err := c.complete(ctx, correctionPrompt, correctionMessage(original, instruction))
	if err != nil {
		return nil, err
	}
	return ParseCorrection(text)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	c.logger.Debug("requesting estimate", "backend", c.completer.Name())
	text, err := c.completer.Complete(ctx, system, user)
	if err != nil {
		return "", &cal.EstimationBackendError{Backend: c.completer.Name(), Err: err}
	}
	return text, nil
}

var _ cal.Estimator = (*Client)(nil)
