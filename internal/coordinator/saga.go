package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
)

const tracerName = "github.com/jcmexdev/place-order/internal/coordinator"

// Step represents a single unit of work in the Saga.
// Each step must have a compensating action to undo its effects.
type Step interface {
	Name() string
	// Phase is the saga state the orchestrator is in while the step runs.
	Phase() sagalog.Status
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs Steps in order and compensates the ones that succeeded
// when a later step fails. One Orchestrator serves exactly one saga.
type Orchestrator struct {
	sagaID string
	steps  []Step
	repo   sagalog.Repository // nil-safe: logging skipped if nil
	tracer trace.Tracer

	phase     sagalog.Status
	completed []Step
}

func NewOrchestrator(sagaID string, steps []Step, repo sagalog.Repository) *Orchestrator {
	return &Orchestrator{
		sagaID: sagaID,
		steps:  steps,
		repo:   repo,
		tracer: otel.Tracer(tracerName),
	}
}

// State is the last state the saga transitioned to.
func (o *Orchestrator) State() sagalog.Status { return o.phase }

// Completed returns the steps that executed successfully and have not been
// compensated, in execution order.
func (o *Orchestrator) Completed() []Step { return o.completed }

// Start runs the saga steps sequentially.
// If a step fails, it triggers the compensation of all previously successful
// steps, moves the saga to FAILED and returns the step's error.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.phase.Terminal() {
		return ErrSagaFinished
	}

	for _, step := range o.steps {
		if step.Phase() != o.phase {
			o.Transition(ctx, step.Phase(), step.Name(), "", nil)
		}

		if err := o.execute(ctx, step); err != nil {
			slog.WarnContext(ctx, "step failed, starting rollback",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)

			o.Transition(ctx, sagalog.StatusCompensating, step.Name(), "", []string{err.Error()})
			failures := o.rollback(ctx)
			o.Transition(ctx, sagalog.StatusFailed, step.Name(), "",
				append([]string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}, failures...))
			return err
		}
		o.completed = append(o.completed, step)
	}

	slog.InfoContext(ctx, "saga steps completed", "saga_id", o.sagaID, "steps", len(o.steps))
	return nil
}

// Transition records a state change in the saga log. Transitions out of a
// terminal state are ignored.
func (o *Orchestrator) Transition(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.phase.Terminal() {
		return
	}
	o.phase = status

	if o.repo == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write saga log", "saga_id", o.sagaID, "status", status, "error", err)
	}
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := o.tracer.Start(ctx, step.Name(),
		trace.WithAttributes(
			attribute.String("saga.id", o.sagaID),
			attribute.String("saga.phase", string(step.Phase())),
		))
	defer span.End()

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// rollback compensates the completed steps in the order they completed, not
// in reverse. A failed compensation is logged and reported but never retried.
func (o *Orchestrator) rollback(ctx context.Context) []string {
	var failures []string
	for _, step := range o.completed {
		slog.InfoContext(ctx, "compensating step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate step",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)
			failures = append(failures, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	o.completed = nil
	return failures
}
