package process

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/cmdutil/logger"
	"github.com/kbukum/cmdutil/observability"
)

const meterName = "github.com/kbukum/cmdutil/process"

var processMetrics = sync.OnceValue(func() *observability.ProcessMetrics {
	m, err := observability.NewProcessMetrics(observability.Meter(meterName))
	if err != nil {
		logger.Get("process").Warn("process metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	return m
})

// invocation traces, measures and logs one operation.
type invocation struct {
	ctx     context.Context
	span    trace.Span
	log     *logger.Logger
	op      string
	program string
	start   time.Time
}

func begin(ctx context.Context, op, program string, attrs ...attribute.KeyValue) *invocation {
	runID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, "process."+op, trace.WithAttributes(
		append(attrs,
			attribute.String(observability.AttrProgram, program),
			attribute.String(observability.AttrRunID, runID),
		)...,
	))
	inv := &invocation{
		ctx:     ctx,
		span:    span,
		op:      op,
		program: program,
		start:   time.Now(),
		log: logger.Get("process").WithFields(logger.Fields(
			logger.FieldRunID, runID,
			logger.FieldOperation, op,
			logger.FieldProgram, program,
		)),
	}
	inv.log.Debug("starting")
	return inv
}

// finish closes the invocation and hands err back unchanged.
func (i *invocation) finish(err error, status *ExitStatus) error {
	elapsed := time.Since(i.start)
	fields := logger.DurationFields(i.op, elapsed)

	if status != nil && status.Code != nil {
		i.span.SetAttributes(attribute.Int(observability.AttrExitCode, *status.Code))
		fields[logger.FieldExitCode] = *status.Code
	}

	outcome := "success"
	if err != nil {
		outcome = outcomeOf(err)
		i.span.RecordError(err)
		i.span.SetStatus(codes.Error, err.Error())
		i.span.SetAttributes(attribute.String(observability.AttrErrorKind, outcome))
		i.log.Debug("failed", logger.MergeWithError(fields, err))
	} else {
		i.log.Debug("finished", fields)
	}
	i.span.End()

	if m := processMetrics(); m != nil {
		m.RecordInvocation(i.ctx, i.op, outcome, elapsed)
	}
	return err
}

func (i *invocation) relayed(lines, skipped int) {
	i.span.SetAttributes(
		attribute.Int(observability.AttrLines, lines),
		attribute.Int(observability.AttrSkipped, skipped),
	)
	if skipped > 0 {
		i.log.Debug("skipped undecodable lines", logger.Fields(logger.FieldSkipped, skipped))
	}
	if m := processMetrics(); m != nil {
		m.RecordRelay(i.ctx, lines, skipped)
	}
}

func (i *invocation) truncated() {
	i.span.SetAttributes(attribute.Bool(observability.AttrTruncated, true))
	i.log.Debug("downstream closed its input early")
}

func outcomeOf(err error) string {
	var se *SpawnError
	if stderrors.As(err, &se) {
		return se.Kind.String()
	}
	return "error"
}
