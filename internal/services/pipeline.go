package services

import (
	"context"
	"time"

	"github.com/KATT/sanitize-csvs/internal/normalize"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Pipeline ingests one source file into its table: count the lines for
// the progress denominator, infer the schema from the header, then
// stream data rows into fixed-size batches.
//
// Per-row faults (column mismatches, rejected batches) are recorded in
// the report and never stop the stream. Only faults that leave nothing
// to load (unopenable file, empty file, table creation failure) end the
// pipeline in the failed state.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same
// instance. The orchestrator creates one Pipeline per file.
type Pipeline struct {
	file      sanitize.SourceFile
	source    sanitize.LineSource
	norm      *normalize.Normalizer
	store     sanitize.Store
	events    sanitize.ProgressPublisher
	logger    sanitize.Logger
	batchSize int
}

// NewPipeline creates a Pipeline with all dependencies injected.
// Panics on nil dependencies and on a batch size below 1; both are
// programmer errors that should fail at startup.
func NewPipeline(
	file sanitize.SourceFile,
	source sanitize.LineSource,
	norm *normalize.Normalizer,
	store sanitize.Store,
	events sanitize.ProgressPublisher,
	logger sanitize.Logger,
	batchSize int,
) *Pipeline {
	if source == nil {
		panic("source cannot be nil")
	}
	if norm == nil {
		panic("norm cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if events == nil {
		panic("events cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if batchSize < 1 {
		panic("batchSize must be at least 1")
	}

	return &Pipeline{
		file:      file,
		source:    source,
		norm:      norm,
		store:     store,
		events:    events,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Run executes the pipeline to its terminal state and returns the
// file's report. Run never returns an error: anything that goes wrong
// is captured in the report, per-row faults as entries and fatal ones
// in Failure.
func (p *Pipeline) Run(ctx context.Context) sanitize.FileReport {
	report := sanitize.FileReport{
		Table:     p.file.Table,
		Path:      p.file.RelPath,
		State:     sanitize.StateOpening,
		StartedAt: time.Now(),
	}
	p.publish(report, 0)

	report.State = sanitize.StateCounting
	p.publish(report, 0)

	total, err := p.source.Count(ctx)
	if err != nil {
		return p.fail(report, err)
	}
	report.TotalLines = total

	// Without a header there is no schema and no table to load into.
	if total == 0 {
		return p.fail(report, sanitize.ErrEmptyFile)
	}

	report.State = sanitize.StateHeaderPending
	p.publish(report, 0)

	if err := p.stream(ctx, &report); err != nil {
		return p.fail(report, err)
	}

	report.State = sanitize.StateDone
	report.FinishedAt = time.Now()
	p.publish(report, total)

	p.logger.Verbose("Loaded %d rows into %s (%d skipped)", report.LoadedRows, report.Table, report.SkippedRows)
	return report
}

// stream runs the second pass: header on line 1, then validate, batch
// and flush data rows. The returned error is pipeline-fatal; per-row
// faults are absorbed into the report.
func (p *Pipeline) stream(ctx context.Context, report *sanitize.FileReport) error {
	var (
		header     sanitize.Record
		batch      []sanitize.Record
		batchStart int64
	)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.store.InsertRows(ctx, p.file.Table, header, batch); err != nil {
			report.SkippedRows += int64(len(batch))
			report.Errors = append(report.Errors, sanitize.NewInsertError(batchStart, len(batch), err.Error()))
			p.logger.Warn("Dropped batch of %d rows for %s at line %d: %v", len(batch), p.file.Table, batchStart, err)
		} else {
			report.LoadedRows += int64(len(batch))
		}
		batch = batch[:0]
	}

	err := p.source.Each(ctx, func(n int64, text string) error {
		rec := p.norm.Split(text)

		// The first line is always the header, whatever it contains.
		if n == 1 {
			header = rec
			if err := p.store.CreateTable(ctx, p.file.Table, header); err != nil {
				return err
			}
			report.State = sanitize.StateTableCreated
			p.publish(*report, n)
			report.State = sanitize.StateStreaming
			return nil
		}

		if len(rec) != len(header) {
			report.SkippedRows++
			report.Errors = append(report.Errors, sanitize.NewColumnMismatch(n, len(header), len(rec), text))
			p.publish(*report, n)
			return nil
		}

		if len(batch) == 0 {
			batchStart = n
		}
		batch = append(batch, rec)
		if len(batch) == p.batchSize {
			flush()
		}
		p.publish(*report, n)
		return nil
	})
	if err != nil {
		return err
	}

	report.State = sanitize.StateDraining
	p.publish(*report, report.TotalLines)
	flush()
	return nil
}

func (p *Pipeline) fail(report sanitize.FileReport, err error) sanitize.FileReport {
	report.Failure = err
	report.State = sanitize.StateFailed
	report.FinishedAt = time.Now()
	p.publish(report, 0)

	p.logger.Error("Pipeline for %s failed: %v", report.Path, err)
	return report
}

func (p *Pipeline) publish(report sanitize.FileReport, line int64) {
	p.events.Publish(sanitize.ProgressEvent{
		Table: report.Table,
		Line:  line,
		Total: report.TotalLines,
		State: report.State,
	})
}
