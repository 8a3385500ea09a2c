package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

// BuildOutcome is the final result of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageResult is the per-stage outcome label.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// ReportIssueCode is a stable machine-readable issue identifier.
type ReportIssueCode string

const (
	IssueConfig            ReportIssueCode = "CONFIG"
	IssueValidation        ReportIssueCode = "VALIDATION"
	IssueNotFound          ReportIssueCode = "NOT_FOUND"
	IssueNetwork           ReportIssueCode = "NETWORK"
	IssueFileSystem        ReportIssueCode = "FILESYSTEM"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity is the normalized issue severity.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is one structured problem recorded during a build.
type ReportIssue struct {
	Code      ReportIssueCode `json:"code"`
	Stage     StageName       `json:"stage"`
	Severity  IssueSeverity   `json:"severity"`
	Message   string          `json:"message"`
	Transient bool            `json:"transient"`
}

// StageCount aggregates stage results.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport summarizes one build.
type BuildReport struct {
	SchemaVersion   int
	Start           time.Time
	End             time.Time
	Documents       int
	RenderedPages   int
	GeneratedPages  int
	Errors          []error
	Warnings        []error
	Issues          []ReportIssue
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// AddIssue records an issue and mirrors err into Errors or Warnings.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, transient bool, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Transient: transient})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

func (r *BuildReport) addWarning(stage StageName, err error) {
	r.AddIssue(issueCode(err), stage, SeverityWarning, err.Error(), transient(err), err)
}

func (r *BuildReport) recordStageResult(stage StageName, res StageResult, rec metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if rec != nil {
		rec.IncStageResult(string(stage), metrics.ResultLabel(res))
	}
}

func (r *BuildReport) finish() { r.End = time.Now() }

func (r *BuildReport) deriveOutcome() {
	switch {
	case len(r.Errors) > 0:
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary returns a one-line human summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("documents=%d rendered=%d generated=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Documents, r.RenderedPages, r.GeneratedPages, r.End.Sub(r.Start).Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), r.Outcome)
}

type reportJSON struct {
	SchemaVersion    int                          `json:"schema_version"`
	Start            time.Time                    `json:"start"`
	End              time.Time                    `json:"end"`
	Documents        int                          `json:"documents"`
	RenderedPages    int                          `json:"rendered_pages"`
	GeneratedPages   int                          `json:"generated_pages"`
	Errors           []string                     `json:"errors"`
	Warnings         []string                     `json:"warnings"`
	Issues           []ReportIssue                `json:"issues"`
	StageDurationsMS map[StageName]int64          `json:"stage_durations_ms"`
	StageErrorKinds  map[StageName]StageErrorKind `json:"stage_error_kinds,omitempty"`
	StageCounts      map[StageName]StageCount     `json:"stage_counts"`
	Outcome          BuildOutcome                 `json:"outcome"`
}

func (r *BuildReport) sanitizedCopy() reportJSON {
	out := reportJSON{
		SchemaVersion:    r.SchemaVersion,
		Start:            r.Start,
		End:              r.End,
		Documents:        r.Documents,
		RenderedPages:    r.RenderedPages,
		GeneratedPages:   r.GeneratedPages,
		Errors:           errorStrings(r.Errors),
		Warnings:         errorStrings(r.Warnings),
		Issues:           r.Issues,
		StageDurationsMS: make(map[StageName]int64, len(r.StageDurations)),
		StageErrorKinds:  r.StageErrorKinds,
		StageCounts:      r.StageCounts,
		Outcome:          r.Outcome,
	}
	for k, d := range r.StageDurations {
		out.StageDurationsMS[k] = d.Milliseconds()
	}
	return out
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

// Persist writes build-report.json and build-report.txt into root.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeViaRename(filepath.Join(root, "build-report.json"), jb); err != nil {
		return err
	}
	return writeViaRename(filepath.Join(root, "build-report.txt"), []byte(r.Summary()+"\n"))
}

func writeViaRename(dst string, data []byte) error {
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(dst), err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(dst), err)
	}
	return nil
}

func issueCode(err error) ReportIssueCode {
	switch derrors.GetCategory(err) {
	case derrors.CategoryConfig:
		return IssueConfig
	case derrors.CategoryValidation:
		return IssueValidation
	case derrors.CategoryNotFound:
		return IssueNotFound
	case derrors.CategoryNetwork:
		return IssueNetwork
	case derrors.CategoryFileSystem:
		return IssueFileSystem
	default:
		return IssueGenericStageError
	}
}
