package site

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

// Stage is a discrete unit of work in a build.
type Stage func(ctx context.Context, bs *buildState) error

// StageName identifies a build stage.
type StageName string

const (
	StagePrepareOutput StageName = "prepare_output"
	StageDiscover      StageName = "discover"
	StageRead          StageName = "read"
	StageWritePages    StageName = "write_pages"
	StageCollectPages  StageName = "collect_pages"
	StageFinish        StageName = "finish"
	StageReport        StageName = "report"
)

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates how a stage failure affects the build.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError carries the stage and kind of a failure.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

type sourceFile struct {
	Doc  docpath.DocName
	Path string
}

// buildState carries mutable state across stages.
type buildState struct {
	builder *Builder
	env     *Env
	reg     *Registry
	report  *BuildReport
	stage   StageName

	sources []sourceFile
	pages   []*Page
	written map[docpath.DocName]string
}

func (b *Builder) stages() []StageDef {
	return []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageDiscover, stageDiscover},
		{StageRead, stageRead},
		{StageWritePages, stageWritePages},
		{StageCollectPages, stageCollectPages},
		{StageFinish, stageFinish},
		{StageReport, stageReport},
	}
}

func stageFinish(ctx context.Context, bs *buildState) error {
	for _, fn := range bs.reg.buildFinished {
		if err := fn(ctx, bs.env); err != nil {
			if derrors.HasSeverity(err, derrors.SeverityWarning) {
				bs.env.Warn(err)
				continue
			}
			return newFatalStageError(StageFinish, err)
		}
	}
	return nil
}

func stageReport(_ context.Context, bs *buildState) error {
	bs.report.finish()
	bs.report.deriveOutcome()
	if err := bs.report.Persist(bs.env.OutputDir); err != nil {
		return newWarnStageError(StageReport, err)
	}
	return nil
}
