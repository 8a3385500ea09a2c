package site

import (
	"context"
	"errors"
	"time"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

type stageOutcome struct {
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Transient bool
	Abort     bool
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, bs *buildState, stages []StageDef, observer BuildObserver) error {
	rec := bs.env.Recorder
	for _, st := range stages {
		bs.stage = st.Name
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.report.StageErrorKinds[st.Name] = se.Kind
			bs.report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), false, se)
			bs.report.recordStageResult(st.Name, StageResultCanceled, rec)
			observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		}

		observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[st.Name] = dur

		out := classifyStageResult(st.Name, err)
		if out.Error != nil {
			bs.report.StageErrorKinds[st.Name] = out.Error.Kind
			bs.report.AddIssue(out.IssueCode, st.Name, out.Severity, out.Error.Error(), out.Transient, out.Error)
		}
		bs.report.recordStageResult(st.Name, out.Result, rec)
		observer.OnStageComplete(st.Name, dur, out.Result)
		if out.Abort {
			return out.Error
		}
	}
	return nil
}

func classifyStageResult(stage StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			se = newCanceledStageError(stage, err)
		} else {
			se = newFatalStageError(stage, err)
		}
	}

	switch se.Kind {
	case StageErrorCanceled:
		return stageOutcome{Error: se, Result: StageResultCanceled, IssueCode: IssueCanceled, Severity: SeverityError, Abort: true}
	case StageErrorWarning:
		return stageOutcome{Error: se, Result: StageResultWarning, IssueCode: issueCode(se.Err), Severity: SeverityWarning, Transient: transient(se.Err)}
	default:
		return stageOutcome{Error: se, Result: StageResultFatal, IssueCode: issueCode(se.Err), Severity: SeverityError, Transient: transient(se.Err), Abort: true}
	}
}

func transient(err error) bool {
	ce, ok := derrors.AsClassified(err)
	return ok && ce.CanRetry()
}
