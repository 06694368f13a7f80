package service

import (
	"context"
	"fmt"

	"exam_portal_backend/pkg/monitoring"
	"exam_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Step is one write in a multi-store operation. A failing Fatal step aborts
// the sequence and runs the Compensate funcs of the steps that already
// succeeded, newest first. Non-fatal steps are best effort: a failure is
// logged and counted, and the sequence moves on.
type Step struct {
	Name       string
	Fatal      bool
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type StepSequence struct {
	log   *zap.Logger
	steps []Step
}

func NewStepSequence(log *zap.Logger) *StepSequence {
	return &StepSequence{log: log}
}

func (s *StepSequence) Add(step Step) *StepSequence {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the steps in order and returns the first fatal error.
func (s *StepSequence) Run(ctx context.Context) error {
	var done []Step
	for _, step := range s.steps {
		err := s.runStep(ctx, step)
		if err == nil {
			done = append(done, step)
			continue
		}
		if !step.Fatal {
			s.log.Warn("Best-effort step failed", zap.String("step", step.Name), zap.Error(err))
			monitoring.BookkeepingFailures.WithLabelValues(step.Name).Inc()
			continue
		}
		s.compensate(ctx, done)
		return fmt.Errorf("%s: %w", step.Name, err)
	}
	return nil
}

func (s *StepSequence) runStep(ctx context.Context, step Step) error {
	ctx, span := tracing.Tracer().Start(ctx, "step."+step.Name)
	defer span.End()
	span.SetAttributes(attribute.Bool("step.fatal", step.Fatal))

	if err := step.Run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// compensate runs even if the caller's context was cancelled. Failures are
// logged and never replace the original error.
func (s *StepSequence) compensate(ctx context.Context, done []Step) {
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.log.Warn("Compensation failed", zap.String("step", step.Name), zap.Error(err))
			monitoring.StorageCompensations.WithLabelValues("failed").Inc()
			continue
		}
		monitoring.StorageCompensations.WithLabelValues("ok").Inc()
	}
}
