package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// stubSource replays a fixed set of lines.
type stubSource struct {
	lines    []string
	countErr error
	eachErr  error
}

func (s *stubSource) Count(_ context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.lines)), nil
}

func (s *stubSource) Each(_ context.Context, fn func(int64, string) error) error {
	if s.eachErr != nil {
		return s.eachErr
	}
	for i, line := range s.lines {
		if err := fn(int64(i+1), line); err != nil {
			return err
		}
	}
	return nil
}

// mockStore captures table creations and inserted batches. insertHook,
// when set, is consulted per insert call (0-indexed per table) and can
// inject a failure.
type mockStore struct {
	mu         sync.Mutex
	created    map[string][]string
	inserted   map[string][][]sanitize.Record
	calls      map[string]int
	createErr  error
	insertHook func(table string, call int) error
	closed     bool
}

func newMockStore() *mockStore {
	return &mockStore{
		created:  make(map[string][]string),
		inserted: make(map[string][][]sanitize.Record),
		calls:    make(map[string]int),
	}
}

func (m *mockStore) CreateTable(_ context.Context, table string, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.created[table] = append([]string(nil), columns...)
	return nil
}

func (m *mockStore) InsertRows(_ context.Context, table string, _ []string, rows []sanitize.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls[table]
	m.calls[table]++
	if m.insertHook != nil {
		if err := m.insertHook(table, call); err != nil {
			return err
		}
	}

	// The pipeline reuses its batch slice, so keep a copy.
	batch := make([]sanitize.Record, len(rows))
	for i, r := range rows {
		batch[i] = append(sanitize.Record(nil), r...)
	}
	m.inserted[table] = append(m.inserted[table], batch)
	return nil
}

func (m *mockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockStore) batches(table string) [][]sanitize.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserted[table]
}

func (m *mockStore) rowCount(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, b := range m.inserted[table] {
		n += len(b)
	}
	return n
}

// mockRunStore extends mockStore with the run manifest surface.
type mockRunStore struct {
	mockStore
	beginErr  error
	recordErr error
	finishErr error
	runs      []sanitize.RunInfo
	reports   []sanitize.FileReport
	finished  []uuid.UUID
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{mockStore: *newMockStore()}
}

func (m *mockRunStore) BeginRun(_ context.Context, info sanitize.RunInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beginErr != nil {
		return m.beginErr
	}
	m.runs = append(m.runs, info)
	return nil
}

func (m *mockRunStore) RecordReport(_ context.Context, _ uuid.UUID, report sanitize.FileReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockRunStore) FinishRun(_ context.Context, runID uuid.UUID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishErr != nil {
		return m.finishErr
	}
	m.finished = append(m.finished, runID)
	return nil
}

func (m *mockRunStore) recorded() []sanitize.FileReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sanitize.FileReport(nil), m.reports...)
}

type mockScanner struct {
	result sanitize.ScanResult
	err    error
}

func (m *mockScanner) ScanDirectory(_ string) (sanitize.ScanResult, error) {
	return m.result, m.err
}

// capturePublisher records every event in order.
type capturePublisher struct {
	mu     sync.Mutex
	events []sanitize.ProgressEvent
}

func (p *capturePublisher) Publish(e sanitize.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// stateSequence returns the observed states with consecutive repeats
// collapsed.
func (p *capturePublisher) stateSequence() []sanitize.PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	var seq []sanitize.PipelineState
	for _, e := range p.events {
		if len(seq) == 0 || seq[len(seq)-1] != e.State {
			seq = append(seq, e.State)
		}
	}
	return seq
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Warn(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}
