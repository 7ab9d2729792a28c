package services

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/internal/lines"
	"github.com/KATT/sanitize-csvs/internal/normalize"
	"github.com/KATT/sanitize-csvs/internal/progress"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface check
var _ sanitize.Rewriter = (*RewriteService)(nil)

// RewriteService implements the Rewriter interface. Instead of loading
// a store it writes each file's canonical form to the same relative
// path under the output directory. The scanner, line source, normalizer
// and progress machinery are shared with the load path; only the sink
// differs.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same
// instance. Create separate instances for concurrent runs.
type RewriteService struct {
	fileScanner sanitize.FileScanner
	fsProvider  filesystem.FileSystemProvider
	renderer    progress.Renderer
	logger      sanitize.Logger
	newSource   sourceFactory
}

// NewRewriteService creates a RewriteService with all dependencies
// injected. Panics on nil dependencies.
func NewRewriteService(
	fileScanner sanitize.FileScanner,
	fsProvider filesystem.FileSystemProvider,
	renderer progress.Renderer,
	logger sanitize.Logger,
) *RewriteService {
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &RewriteService{
		fileScanner: fileScanner,
		fsProvider:  fsProvider,
		renderer:    renderer,
		logger:      logger,
	}
	svc.newSource = func(path string) sanitize.LineSource {
		return lines.NewFileSource(fsProvider, path)
	}
	return svc
}

// Run executes a rewrite run and returns the merged summary. As with
// loading, the returned error covers run-level faults only.
func (s *RewriteService) Run(ctx context.Context, cfg sanitize.RewriteConfig) (sanitize.RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return sanitize.RunSummary{}, err
	}

	summary := sanitize.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	s.logger.Verbose("Starting run %s: rewriting %s into %s", summary.RunID, cfg.InputDir, cfg.OutputDir)

	scan, err := s.fileScanner.ScanDirectory(cfg.InputDir)
	if err != nil {
		return summary, err
	}

	if scan.Empty() {
		s.logger.Info("No %s files found in %s", cfg.Extension, cfg.InputDir)
		summary.FinishedAt = time.Now()
		return summary, nil
	}

	norm := normalize.New(cfg.Separator, cfg.Quote)

	agg := progress.NewAggregator(s.renderer)
	agg.Start()

	results := make([]sanitize.FileReport, len(scan.Files))
	var wg sync.WaitGroup
	for i, f := range scan.Files {
		wg.Add(1)
		go func(i int, f sanitize.SourceFile) {
			defer wg.Done()
			results[i] = s.rewriteFile(ctx, cfg, f, norm, agg)
		}(i, f)
	}
	wg.Wait()
	agg.Close()

	reports := append(collisionReports(s.logger, scan.Collisions), results...)
	sortReports(reports)
	summary.Reports = reports
	summary.FinishedAt = time.Now()

	return summary, nil
}

// rewriteFile streams one source into its companion file. Lines whose
// field count differs from the header's are dropped with a warning; the
// written file always ends with a newline.
func (s *RewriteService) rewriteFile(
	ctx context.Context,
	cfg sanitize.RewriteConfig,
	file sanitize.SourceFile,
	norm *normalize.Normalizer,
	events sanitize.ProgressPublisher,
) sanitize.FileReport {
	report := sanitize.FileReport{
		Table:     file.Table,
		Path:      file.RelPath,
		State:     sanitize.StateOpening,
		StartedAt: time.Now(),
	}

	publish := func(line int64) {
		events.Publish(sanitize.ProgressEvent{
			Table: report.Table,
			Line:  line,
			Total: report.TotalLines,
			State: report.State,
		})
	}
	fail := func(err error) sanitize.FileReport {
		report.Failure = err
		report.State = sanitize.StateFailed
		report.FinishedAt = time.Now()
		publish(0)
		s.logger.Error("Rewrite of %s failed: %v", report.Path, err)
		return report
	}

	publish(0)

	source := s.newSource(file.Path)

	report.State = sanitize.StateCounting
	publish(0)

	total, err := source.Count(ctx)
	if err != nil {
		return fail(err)
	}
	report.TotalLines = total

	if total == 0 {
		return fail(sanitize.ErrEmptyFile)
	}

	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(file.RelPath))
	out, err := s.fsProvider.Create(outPath)
	if err != nil {
		return fail(fmt.Errorf("failed to create %s: %w", outPath, err))
	}

	w := bufio.NewWriter(out)
	var header sanitize.Record

	report.State = sanitize.StateHeaderPending
	publish(0)

	err = source.Each(ctx, func(n int64, text string) error {
		rec := norm.Split(text)

		if n == 1 {
			header = rec
			report.State = sanitize.StateStreaming
			if _, err := w.WriteString(norm.Canonical(rec) + "\n"); err != nil {
				return err
			}
			publish(n)
			return nil
		}

		if len(rec) != len(header) {
			report.SkippedRows++
			report.Errors = append(report.Errors, sanitize.NewColumnMismatch(n, len(header), len(rec), text))
			s.logger.Warn("Dropping line %d of %s: expected %d fields, got %d", n, report.Path, len(header), len(rec))
			publish(n)
			return nil
		}

		if _, err := w.WriteString(norm.Canonical(rec) + "\n"); err != nil {
			return err
		}
		report.LoadedRows++
		publish(n)
		return nil
	})
	if err != nil {
		out.Close()
		return fail(err)
	}

	report.State = sanitize.StateDraining
	publish(report.TotalLines)

	if err := w.Flush(); err != nil {
		out.Close()
		return fail(fmt.Errorf("failed to write %s: %w", outPath, err))
	}
	if err := out.Close(); err != nil {
		return fail(fmt.Errorf("failed to close %s: %w", outPath, err))
	}

	report.State = sanitize.StateDone
	report.FinishedAt = time.Now()
	publish(report.TotalLines)

	s.logger.Verbose("Rewrote %s (%d rows, %d dropped)", report.Path, report.LoadedRows, report.SkippedRows)
	return report
}
