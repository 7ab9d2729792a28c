package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/KATT/sanitize-csvs/internal/normalize"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

func testSourceFile(table string) sanitize.SourceFile {
	return sanitize.SourceFile{
		Path:    "/in/" + table + ".csv",
		RelPath: table + ".csv",
		Table:   table,
	}
}

func newTestPipeline(src *stubSource, st sanitize.Store, batchSize int) (*Pipeline, *capturePublisher) {
	pub := &capturePublisher{}
	p := NewPipeline(testSourceFile("products"), src, normalize.New("*|*", `"`), st, pub, &mockLogger{}, batchSize)
	return p, pub
}

func TestNewPipeline_NilDeps(t *testing.T) {
	file := testSourceFile("products")
	src := &stubSource{}
	norm := normalize.New("*|*", `"`)
	st := newMockStore()
	pub := &capturePublisher{}
	lg := &mockLogger{}

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil source", func() { NewPipeline(file, nil, norm, st, pub, lg, 100) }},
		{"nil norm", func() { NewPipeline(file, src, nil, st, pub, lg, 100) }},
		{"nil store", func() { NewPipeline(file, src, norm, nil, pub, lg, 100) }},
		{"nil events", func() { NewPipeline(file, src, norm, st, nil, lg, 100) }},
		{"nil logger", func() { NewPipeline(file, src, norm, st, pub, nil, 100) }},
		{"zero batch size", func() { NewPipeline(file, src, norm, st, pub, lg, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestPipelineRun_WellFormedFile(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{lines: []string{
		"id*|*name*|*age",
		"1*|*Ann*|*30",
		"3*|*Cid*|*40",
	}}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateDone {
		t.Fatalf("State = %s, want done (failure: %v)", report.State, report.Failure)
	}
	if report.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", report.TotalLines)
	}
	if report.LoadedRows != 2 || report.SkippedRows != 0 {
		t.Errorf("Loaded/Skipped = %d/%d, want 2/0", report.LoadedRows, report.SkippedRows)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Expected no error entries, got %d", len(report.Errors))
	}

	cols := st.created["products"]
	if len(cols) != 3 || cols[0] != "id" || cols[1] != "name" || cols[2] != "age" {
		t.Errorf("Created columns = %v, want [id name age]", cols)
	}

	batches := st.batches("products")
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("Expected 1 batch of 2 rows, got %v", batches)
	}
	if !batches[0][0].Equal(sanitize.Record{"1", "Ann", "30"}) {
		t.Errorf("First row = %v", batches[0][0])
	}
	if !batches[0][1].Equal(sanitize.Record{"3", "Cid", "40"}) {
		t.Errorf("Second row = %v", batches[0][1])
	}
}

func TestPipelineRun_MismatchedRowSkipped(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{lines: []string{
		"id*|*name*|*age",
		"1*|*Ann*|*30",
		"2*|*Bob",
		"3*|*Cid*|*40",
	}}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateDone {
		t.Fatalf("State = %s, want done", report.State)
	}
	if report.LoadedRows != 2 || report.SkippedRows != 1 {
		t.Errorf("Loaded/Skipped = %d/%d, want 2/1", report.LoadedRows, report.SkippedRows)
	}

	mismatches := report.Mismatches()
	if len(mismatches) != 1 {
		t.Fatalf("Expected 1 mismatch entry, got %d", len(mismatches))
	}
	m := mismatches[0]
	if m.Line != 3 || m.Expected != 3 || m.Got != 2 {
		t.Errorf("Mismatch = line %d, expected %d, got %d; want line 3, expected 3, got 2", m.Line, m.Expected, m.Got)
	}
	if m.Raw != "2*|*Bob" {
		t.Errorf("Raw = %q, want the offending line", m.Raw)
	}

	if got := st.rowCount("products"); got != 2 {
		t.Errorf("Stored rows = %d, want 2", got)
	}
}

func TestPipelineRun_BatchBoundaries(t *testing.T) {
	st := newMockStore()
	lines := []string{"id*|*name"}
	for i := 1; i <= 5; i++ {
		lines = append(lines, fmt.Sprintf("%d*|*row%d", i, i))
	}
	p, _ := newTestPipeline(&stubSource{lines: lines}, st, 2)

	report := p.Run(context.Background())

	if report.LoadedRows != 5 {
		t.Fatalf("LoadedRows = %d, want 5", report.LoadedRows)
	}

	batches := st.batches("products")
	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	// Every flush except the last is exactly batch-sized.
	for i, want := range []int{2, 2, 1} {
		if len(batches[i]) != want {
			t.Errorf("Batch %d has %d rows, want %d", i, len(batches[i]), want)
		}
	}
}

func TestPipelineRun_FailedBatchRecordedAndSkipped(t *testing.T) {
	st := newMockStore()
	st.insertHook = func(_ string, call int) error {
		if call == 1 {
			return errors.New("disk full")
		}
		return nil
	}

	lines := []string{"id*|*name"}
	for i := 1; i <= 6; i++ {
		lines = append(lines, fmt.Sprintf("%d*|*row%d", i, i))
	}
	p, _ := newTestPipeline(&stubSource{lines: lines}, st, 2)

	report := p.Run(context.Background())

	if report.State != sanitize.StateDone {
		t.Fatalf("State = %s, want done: a failed batch never fails the file", report.State)
	}
	if report.LoadedRows != 4 || report.SkippedRows != 2 {
		t.Errorf("Loaded/Skipped = %d/%d, want 4/2", report.LoadedRows, report.SkippedRows)
	}

	inserts := report.InsertErrors()
	if len(inserts) != 1 {
		t.Fatalf("Expected 1 insert error, got %d", len(inserts))
	}
	e := inserts[0]
	// Batches cover lines 2-3, 4-5, 6-7; the second one failed.
	if e.StartLine != 4 || e.Rows != 2 {
		t.Errorf("InsertError = start %d, rows %d; want start 4, rows 2", e.StartLine, e.Rows)
	}
	if !strings.Contains(e.Message, "disk full") {
		t.Errorf("Message = %q, want the store's error text", e.Message)
	}

	batches := st.batches("products")
	if len(batches) != 2 {
		t.Fatalf("Expected 2 stored batches, got %d", len(batches))
	}
	if !batches[1][0].Equal(sanitize.Record{"5", "row5"}) {
		t.Errorf("Batch after the failure starts with %v, want row 5", batches[1][0])
	}
}

func TestPipelineRun_AllBatchesFail(t *testing.T) {
	st := newMockStore()
	st.insertHook = func(_ string, _ int) error {
		return errors.New("no such table")
	}

	lines := []string{"id*|*name"}
	for i := 1; i <= 5; i++ {
		lines = append(lines, fmt.Sprintf("%d*|*row%d", i, i))
	}
	p, _ := newTestPipeline(&stubSource{lines: lines}, st, 2)

	report := p.Run(context.Background())

	if report.State != sanitize.StateDone {
		t.Fatalf("State = %s, want done", report.State)
	}
	if report.LoadedRows != 0 || report.SkippedRows != 5 {
		t.Errorf("Loaded/Skipped = %d/%d, want 0/5", report.LoadedRows, report.SkippedRows)
	}

	inserts := report.InsertErrors()
	if len(inserts) != 3 {
		t.Fatalf("Expected 3 insert errors, got %d", len(inserts))
	}
	for i, wantStart := range []int64{2, 4, 6} {
		if inserts[i].StartLine != wantStart {
			t.Errorf("InsertError %d start = %d, want %d", i, inserts[i].StartLine, wantStart)
		}
	}
}

func TestPipelineRun_EmptyFile(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateFailed {
		t.Fatalf("State = %s, want failed", report.State)
	}
	if !errors.Is(report.Failure, sanitize.ErrEmptyFile) {
		t.Errorf("Failure = %v, want ErrEmptyFile", report.Failure)
	}
	if len(st.created) != 0 {
		t.Error("No table should be created for an empty file")
	}
}

func TestPipelineRun_HeaderOnlyFile(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{lines: []string{"id*|*name"}}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateDone {
		t.Fatalf("State = %s, want done", report.State)
	}
	if report.LoadedRows != 0 {
		t.Errorf("LoadedRows = %d, want 0", report.LoadedRows)
	}
	if _, ok := st.created["products"]; !ok {
		t.Error("Table should be created from the header even with no data rows")
	}
}

func TestPipelineRun_CountFails(t *testing.T) {
	st := newMockStore()
	countErr := fmt.Errorf("%w: permission denied", sanitize.ErrStreamOpen)
	p, _ := newTestPipeline(&stubSource{countErr: countErr}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateFailed {
		t.Fatalf("State = %s, want failed", report.State)
	}
	if !errors.Is(report.Failure, sanitize.ErrStreamOpen) {
		t.Errorf("Failure = %v, want ErrStreamOpen", report.Failure)
	}
}

func TestPipelineRun_StreamFails(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{
		lines:   []string{"id*|*name"},
		eachErr: fmt.Errorf("%w: file vanished", sanitize.ErrStreamOpen),
	}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateFailed {
		t.Fatalf("State = %s, want failed", report.State)
	}
	if !errors.Is(report.Failure, sanitize.ErrStreamOpen) {
		t.Errorf("Failure = %v, want ErrStreamOpen", report.Failure)
	}
}

func TestPipelineRun_CreateTableFails(t *testing.T) {
	st := newMockStore()
	st.createErr = errors.New("duplicate column name: id")
	p, _ := newTestPipeline(&stubSource{lines: []string{
		"id*|*id",
		"1*|*2",
	}}, st, 100)

	report := p.Run(context.Background())

	if report.State != sanitize.StateFailed {
		t.Fatalf("State = %s, want failed: without its table the file cannot load", report.State)
	}
	if report.Failure == nil || !strings.Contains(report.Failure.Error(), "duplicate column") {
		t.Errorf("Failure = %v, want the create error", report.Failure)
	}
	if got := st.rowCount("products"); got != 0 {
		t.Errorf("Stored rows = %d, want 0", got)
	}
}

func TestPipelineRun_BlankLineCountsAsOneField(t *testing.T) {
	st := newMockStore()
	p, _ := newTestPipeline(&stubSource{lines: []string{
		"id*|*name",
		"",
		"1*|*Ann",
	}}, st, 100)

	report := p.Run(context.Background())

	if report.LoadedRows != 1 || report.SkippedRows != 1 {
		t.Errorf("Loaded/Skipped = %d/%d, want 1/1", report.LoadedRows, report.SkippedRows)
	}
	mismatches := report.Mismatches()
	if len(mismatches) != 1 || mismatches[0].Got != 1 {
		t.Errorf("Expected one mismatch with got=1, have %v", mismatches)
	}
}

func TestPipelineRun_PublishesLifecycle(t *testing.T) {
	st := newMockStore()
	p, pub := newTestPipeline(&stubSource{lines: []string{
		"id*|*name",
		"1*|*Ann",
	}}, st, 100)

	p.Run(context.Background())

	seq := pub.stateSequence()
	want := []sanitize.PipelineState{
		sanitize.StateOpening,
		sanitize.StateCounting,
		sanitize.StateHeaderPending,
		sanitize.StateTableCreated,
		sanitize.StateStreaming,
		sanitize.StateDraining,
		sanitize.StateDone,
	}
	if len(seq) != len(want) {
		t.Fatalf("State sequence = %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("State sequence = %v, want %v", seq, want)
		}
	}
}

func TestPipelineRun_FailurePublishesTerminalState(t *testing.T) {
	st := newMockStore()
	p, pub := newTestPipeline(&stubSource{countErr: errors.New("boom")}, st, 100)

	p.Run(context.Background())

	seq := pub.stateSequence()
	if len(seq) == 0 || seq[len(seq)-1] != sanitize.StateFailed {
		t.Errorf("Last published state = %v, want failed", seq)
	}
}
