package cal

import (
	"context"
	"errors"
	"fmt"
)

// Handler turns inbound message text into reply text by composing the
// estimator and the entry store.
type Handler struct {
	store     *EntryStore
	estimator Estimator
	target    int
	logger    Logger
}

// NewHandler creates a Handler. target is the daily calorie target shown in
// replies.
func NewHandler(store *EntryStore, estimator Estimator, target int, logger Logger) *Handler {
	return &Handler{
		store:     store,
		estimator: estimator,
		target:    target,
		logger:    logger,
	}
}

// Handle classifies text, runs the command and returns the reply. Failures
// are reported in the reply itself; the user is the only observer.
func (h *Handler) Handle(ctx context.Context, text string) string {
	reply, err := h.Run(ctx, Classify(text))
	if err != nil {
		h.logger.Error("command failed", "request_id", RequestID(ctx), "error", err)
		return ErrorReply(err)
	}
	return reply
}

// Run executes a single command.
func (h *Handler) Run(ctx context.Context, cmd Command) (string, error) {
	switch c := cmd.(type) {
	case LogCommand:
		return h.handleLog(ctx, c)
	case EditCommand:
		return h.handleEdit(ctx, c)
	case DeleteCommand:
		return h.handleDelete(ctx, c)
	case SummaryCommand:
		return h.handleSummary(ctx)
	default:
		return "", fmt.Errorf("unknown command %T", cmd)
	}
}

func (h *Handler) handleLog(ctx context.Context, c LogCommand) (string, error) {
	if c.Description == "" {
		return logUsage, nil
	}

	est, err := h.estimator.Estimate(ctx, c.Description)
	if err != nil {
		return "", err
	}

	number, dailyTotal, err := h.store.Append(ctx, c.Description, est.Items, est.TotalCalories)
	if err != nil {
		return "", err
	}

	return formatLogged(number, est, dailyTotal, h.target), nil
}

func (h *Handler) handleEdit(ctx context.Context, c EditCommand) (string, error) {
	// Check the number against today's entries before spending a backend
	// call. The original description is needed for partial corrections.
	original, err := h.store.Entry(ctx, c.EntryNumber)
	if err != nil {
		return "", err
	}
	if c.Instruction == "" {
		return fmt.Sprintf(editUsage, c.EntryNumber), nil
	}

	corr, err := h.estimator.EstimateCorrection(ctx, original.Description, c.Instruction)
	if err != nil {
		return "", err
	}

	dailyTotal, err := h.store.Update(ctx, c.EntryNumber, corr.CorrectedDescription, corr.Items, corr.TotalCalories)
	if err != nil {
		return "", err
	}

	return formatUpdated(c.EntryNumber, corr, dailyTotal, h.target), nil
}

func (h *Handler) handleDelete(ctx context.Context, c DeleteCommand) (string, error) {
	dailyTotal, err := h.store.Delete(ctx, c.EntryNumber)
	if err != nil {
		return "", err
	}
	return formatDeleted(c.EntryNumber, dailyTotal, h.target), nil
}

func (h *Handler) handleSummary(ctx context.Context) (string, error) {
	entries, err := h.store.ListToday(ctx)
	if err != nil {
		return "", err
	}
	return formatSummary(entries, h.target), nil
}

// ErrorReply renders err as the plain-text reply the user sees.
func ErrorReply(err error) string {
	var notFound *EntryNotFoundError
	var backend *EstimationBackendError
	var parse *EstimationParseError

	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &backend), errors.As(err, &parse):
		return "Couldn't estimate calories: " + err.Error()
	case errors.Is(err, ErrStoreUnavailable):
		return "Couldn't reach the calorie log: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
