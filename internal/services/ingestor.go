package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/internal/lines"
	"github.com/KATT/sanitize-csvs/internal/normalize"
	"github.com/KATT/sanitize-csvs/internal/progress"
	"github.com/KATT/sanitize-csvs/internal/store"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface check
var _ sanitize.Ingestor = (*IngestService)(nil)

// runStore is the store surface a load run needs: record loading plus
// the run manifest.
type runStore interface {
	sanitize.Store
	sanitize.RunRecorder
}

type storeFactory func(path string, logger sanitize.Logger) (runStore, error)

type sourceFactory func(path string) sanitize.LineSource

// IngestService implements the Ingestor interface. It resets the store,
// scans the input directory, runs one pipeline goroutine per file, and
// merges the terminal reports into a run summary.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same
// instance. Create separate instances for concurrent runs.
type IngestService struct {
	fileScanner sanitize.FileScanner
	renderer    progress.Renderer
	logger      sanitize.Logger
	newStore    storeFactory
	newSource   sourceFactory
}

// NewIngestService creates an IngestService with all dependencies
// injected. Panics on nil dependencies: a missing collaborator is a
// programmer error that should fail at startup, not during a run.
func NewIngestService(fileScanner sanitize.FileScanner, renderer progress.Renderer, logger sanitize.Logger) *IngestService {
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &IngestService{
		fileScanner: fileScanner,
		renderer:    renderer,
		logger:      logger,
	}
	svc.newStore = defaultStoreFactory
	svc.newSource = defaultSourceFactory
	return svc
}

func defaultStoreFactory(path string, logger sanitize.Logger) (runStore, error) {
	return store.Open(path, logger)
}

func defaultSourceFactory(path string) sanitize.LineSource {
	return lines.NewFileSource(filesystem.NewOSFileSystem(), path)
}

// Run executes a load run: open a fresh store, scan the input
// directory, load every file concurrently, and return the merged
// summary. The returned error covers run-level faults only; per-file
// outcomes, including failures, live in the summary's reports.
func (s *IngestService) Run(ctx context.Context, cfg sanitize.LoadConfig) (sanitize.RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return sanitize.RunSummary{}, err
	}

	runID := uuid.New()
	summary := sanitize.RunSummary{
		RunID:     runID.String(),
		StartedAt: time.Now(),
	}

	s.logger.Verbose("Starting run %s: loading %s into %s", summary.RunID, cfg.InputDir, cfg.StorePath)

	st, err := s.newStore(cfg.StorePath, s.logger)
	if err != nil {
		return summary, err
	}
	defer st.Close()

	scan, err := s.fileScanner.ScanDirectory(cfg.InputDir)
	if err != nil {
		return summary, err
	}
	s.logger.Verbose("Found %d file(s), %d rejected over table collisions", len(scan.Files), len(scan.Collisions))

	if err := st.BeginRun(ctx, sanitize.RunInfo{
		ID:        runID,
		StartedAt: summary.StartedAt,
		InputDir:  cfg.InputDir,
		FileCount: len(scan.Files),
	}); err != nil {
		return summary, err
	}

	if scan.Empty() {
		s.logger.Info("No %s files found in %s", cfg.Extension, cfg.InputDir)
	} else {
		summary.Reports = s.runPipelines(ctx, cfg, scan, st, runID)
	}

	summary.FinishedAt = time.Now()
	if err := st.FinishRun(ctx, runID, summary.FinishedAt); err != nil {
		s.logger.Error("Failed to close run manifest: %v", err)
	}

	return summary, nil
}

// runPipelines launches one pipeline goroutine per accepted file, all
// before awaiting any, and joins them all. Rejected collision files are
// folded in as failed reports. Every report is written to the manifest
// as it arrives.
func (s *IngestService) runPipelines(
	ctx context.Context,
	cfg sanitize.LoadConfig,
	scan sanitize.ScanResult,
	st runStore,
	runID uuid.UUID,
) []sanitize.FileReport {
	norm := normalize.New(cfg.Separator, cfg.Quote)

	agg := progress.NewAggregator(s.renderer)
	agg.Start()

	record := func(report sanitize.FileReport) {
		if err := st.RecordReport(ctx, runID, report); err != nil {
			s.logger.Error("Failed to record report for %s: %v", report.Path, err)
		}
	}

	reports := collisionReports(s.logger, scan.Collisions)
	for _, r := range reports {
		record(r)
	}

	results := make([]sanitize.FileReport, len(scan.Files))
	var wg sync.WaitGroup
	for i, f := range scan.Files {
		wg.Add(1)
		go func(i int, f sanitize.SourceFile) {
			defer wg.Done()
			pipeline := NewPipeline(f, s.newSource(f.Path), norm, st, agg, s.logger, cfg.BatchSize)
			results[i] = pipeline.Run(ctx)
			record(results[i])
		}(i, f)
	}
	wg.Wait()
	agg.Close()

	reports = append(reports, results...)
	sortReports(reports)
	return reports
}
