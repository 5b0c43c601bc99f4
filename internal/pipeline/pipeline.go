package pipeline

import (
	"context"
	"log/slog"

	"github.com/pricescout/pricescout/internal/model"
)

// State is the mutable payload threaded through the pipeline.
// The engine seeds it with the raw offers collected from providers;
// each step refines Offers in place or replaces the slice.
type State struct {
	// Query is the original search query text.
	Query string

	// TargetCurrency is the ISO 4217 code prices are normalized to.
	TargetCurrency string

	// Raw holds the offers as collected from providers. Steps read
	// from here but never modify it.
	Raw []model.RawOffer

	// Offers is the working set, populated by the normalize step and
	// reduced/reordered by later steps.
	Offers []*model.NormalizedOffer

	// DroppedUnparseable counts offers discarded because their price
	// text could not be parsed.
	DroppedUnparseable int

	// ConversionFallbacks counts offers kept in their source currency
	// because conversion to the target currency failed.
	ConversionFallbacks int

	// MergedDuplicates counts offers folded into duplicate groups
	// (input offers minus surviving representatives).
	MergedDuplicates int
}

// Step is one stage of the offer-processing chain. Steps run in
// sequence, each receiving the State accumulated so far.
//
// Design decision: an interface rather than a function type because
// steps carry configuration (converter, thresholds) and a Name() for
// logging.
type Step interface {
	// Do executes the step, mutating state. A returned error aborts
	// the pipeline unless it was built with WithContinueOnError.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes an ordered list of steps.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing later steps after one fails.
// The default is to stop: a failed normalize step leaves nothing for
// the steps after it to work on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline. Add steps with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step. Steps run in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
//
// Cancellation is checked before each step rather than during: steps
// are synchronous and CPU-bound, so there is no point interrupting one
// mid-flight.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				slog.String("step", step.Name()),
				slog.Any("reason", ctx.Err()))
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			slog.String("step", step.Name()),
			slog.Int("offers", len(state.Offers)))

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				slog.String("step", step.Name()),
				slog.Any("error", err))
			if !p.continueOnError {
				return err
			}
		}
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
