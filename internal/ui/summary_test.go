package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

func testSummary(reports ...sanitize.FileReport) sanitize.RunSummary {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return sanitize.RunSummary{
		RunID:      "3f2a9c41-0000-0000-0000-000000000000",
		StartedAt:  started,
		FinishedAt: started.Add(1200 * time.Millisecond),
		Reports:    reports,
	}
}

func TestNewSummaryWriter_PanicsOnNilWriter(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil writer")
		}
	}()
	NewSummaryWriter(nil)
}

func TestSummaryWriter_Header(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary())

	got := out.String()
	if !strings.Contains(got, "Run 3f2a9c41 finished in 1.2s") {
		t.Errorf("Missing header:\n%s", got)
	}
}

func TestSummaryWriter_CleanFile(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(sanitize.FileReport{
		Table:      "orders",
		Path:       "orders.csv",
		State:      sanitize.StateDone,
		TotalLines: 3,
		LoadedRows: 2,
	}))

	got := out.String()
	if !strings.Contains(got, "orders (orders.csv)") || !strings.Contains(got, "2 rows loaded") {
		t.Errorf("Missing clean file line:\n%s", got)
	}
	if !strings.Contains(got, "✓") {
		t.Errorf("Missing success marker:\n%s", got)
	}
}

func TestSummaryWriter_FileWithFaults(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(sanitize.FileReport{
		Table:       "readings",
		Path:        "readings.csv",
		State:       sanitize.StateDone,
		LoadedRows:  8,
		SkippedRows: 2,
		Errors: []sanitize.ErrorEntry{
			sanitize.NewColumnMismatch(4, 3, 2, "s2*|*21.0"),
			sanitize.NewInsertError(7, 2, "disk full"),
		},
	}))

	got := out.String()
	if !strings.Contains(got, "8 rows loaded, 2 skipped") {
		t.Errorf("Missing totals line:\n%s", got)
	}
	if !strings.Contains(got, "line 4: expected 3 columns, got 2") {
		t.Errorf("Missing mismatch preview:\n%s", got)
	}
	if !strings.Contains(got, "batch at line 7: 2 rows dropped: disk full") {
		t.Errorf("Missing insert preview:\n%s", got)
	}
}

func TestSummaryWriter_FailedFile(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(sanitize.FileReport{
		Table:   "broken",
		Path:    "broken.csv",
		State:   sanitize.StateFailed,
		Failure: errors.New("boom"),
	}))

	got := out.String()
	if !strings.Contains(got, "failed: boom") {
		t.Errorf("Missing failure line:\n%s", got)
	}
	if !strings.Contains(got, "✗") {
		t.Errorf("Missing failure marker:\n%s", got)
	}
}

func TestSummaryWriter_PreviewsAreCapped(t *testing.T) {
	report := sanitize.FileReport{
		Table: "big",
		Path:  "big.csv",
		State: sanitize.StateDone,
	}
	for i := 0; i < sanitize.ErrorPreviewLimit+3; i++ {
		report.Errors = append(report.Errors, sanitize.NewColumnMismatch(int64(i+2), 3, 2, "raw"))
	}
	for i := 0; i < sanitize.ErrorPreviewLimit+2; i++ {
		report.Errors = append(report.Errors, sanitize.NewInsertError(int64(i*10+2), 10, "locked"))
	}

	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(report))
	got := out.String()

	if n := strings.Count(got, "expected 3 columns"); n != sanitize.ErrorPreviewLimit {
		t.Errorf("Printed %d mismatch previews, want %d:\n%s", n, sanitize.ErrorPreviewLimit, got)
	}
	if n := strings.Count(got, "rows dropped: locked"); n != sanitize.ErrorPreviewLimit {
		t.Errorf("Printed %d insert previews, want %d:\n%s", n, sanitize.ErrorPreviewLimit, got)
	}
	if !strings.Contains(got, "3 more column mismatches") {
		t.Errorf("Missing mismatch remainder:\n%s", got)
	}
	if !strings.Contains(got, "2 more failed batches") {
		t.Errorf("Missing batch remainder:\n%s", got)
	}
}

func TestSummaryWriter_TotalsLine(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(
		sanitize.FileReport{Table: "a", Path: "a.csv", State: sanitize.StateDone, LoadedRows: 10, SkippedRows: 3},
		sanitize.FileReport{Table: "b", Path: "b.csv", State: sanitize.StateDone, LoadedRows: 2, SkippedRows: 1},
		sanitize.FileReport{Table: "c", Path: "c.csv", State: sanitize.StateFailed, Failure: errors.New("boom")},
	))

	got := out.String()
	for _, want := range []string{"3 files", "12 rows loaded", "4 skipped", "1 files failed"} {
		if !strings.Contains(got, want) {
			t.Errorf("Totals line missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryWriter_NoFailedSegmentWhenAllSucceed(t *testing.T) {
	var out bytes.Buffer
	NewSummaryWriter(&out).Write(testSummary(
		sanitize.FileReport{Table: "a", Path: "a.csv", State: sanitize.StateDone, LoadedRows: 1},
	))

	if strings.Contains(out.String(), "failed") {
		t.Errorf("Unexpected failed segment:\n%s", out.String())
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3f2a9c41-0000-0000-0000-000000000000", "3f2a9c41"},
		{"short", "short"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, tt.want, got)
		}
	}
}
