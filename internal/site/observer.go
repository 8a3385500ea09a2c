package site

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and the build.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver ignores all callbacks.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                          {}

// recorderObserver feeds stage and build timings into a metrics.Recorder and
// logs stage progress.
type recorderObserver struct {
	rec    metrics.Recorder
	logger *slog.Logger
}

func (o recorderObserver) OnStageStart(stage StageName) {
	o.logger.Debug("Stage started", logfields.Stage(string(stage)))
}

func (o recorderObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	o.rec.ObserveStageDuration(string(stage), d)
	o.logger.Debug("Stage complete",
		logfields.Stage(string(stage)),
		logfields.DurationMS(float64(d.Microseconds())/1000),
		slog.String("result", string(result)))
}

func (o recorderObserver) OnBuildComplete(report *BuildReport) {
	o.rec.ObserveBuildDuration(report.End.Sub(report.Start))
	o.rec.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
}

// multiObserver fans out to several observers.
type multiObserver []BuildObserver

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, result)
	}
}

func (m multiObserver) OnBuildComplete(report *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}
