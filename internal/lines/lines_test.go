package lines

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

func newSource(t *testing.T, content string) *FileSource {
	t.Helper()
	fs := filesystem.NewMemoryFileSystem("/data")
	fs.AddFile("input.csv", content)
	return NewFileSource(fs, "/data/input.csv")
}

func TestNewFileSource_PanicsOnNilArgs(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/data")

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil provider", func() { NewFileSource(nil, "x") }},
		{"empty path", func() { NewFileSource(fs, "") }},
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

func TestFileSource_Count(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{"empty file", "", 0},
		{"single line with newline", "header\n", 1},
		{"single line without newline", "header", 1},
		{"three lines", "h\na\nb\n", 3},
		{"final line unterminated", "h\na\nb", 3},
		{"blank lines count", "h\n\n\n", 3},
		{"lone newline", "\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(t, tt.content)
			got, err := src.Count(context.Background())
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFileSource_Each_OneIndexed(t *testing.T) {
	src := newSource(t, "header\nrow1\nrow2\n")

	var numbers []int64
	var texts []string
	err := src.Each(context.Background(), func(n int64, text string) error {
		numbers = append(numbers, n)
		texts = append(texts, text)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}

	if len(numbers) != 3 || numbers[0] != 1 || numbers[2] != 3 {
		t.Errorf("line numbers = %v, want [1 2 3]", numbers)
	}
	if texts[0] != "header" || texts[1] != "row1" || texts[2] != "row2" {
		t.Errorf("texts = %v", texts)
	}
}

func TestFileSource_Each_StripsCarriageReturns(t *testing.T) {
	src := newSource(t, "header\r\nrow1\r\nrow2")

	var texts []string
	err := src.Each(context.Background(), func(n int64, text string) error {
		texts = append(texts, text)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}

	for i, text := range texts {
		if strings.ContainsRune(text, '\r') {
			t.Errorf("line %d still contains \\r: %q", i+1, text)
		}
	}
	if texts[0] != "header" || texts[2] != "row2" {
		t.Errorf("texts = %v", texts)
	}
}

func TestFileSource_Each_StopsOnCallbackError(t *testing.T) {
	src := newSource(t, "1\n2\n3\n4\n")

	boom := errors.New("boom")
	var seen int
	err := src.Each(context.Background(), func(n int64, text string) error {
		seen++
		if n == 2 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Errorf("Each() error = %v, want boom", err)
	}
	if seen != 2 {
		t.Errorf("callback ran %d times, want 2", seen)
	}
}

func TestFileSource_Each_ContextCancellation(t *testing.T) {
	src := newSource(t, "1\n2\n3\n")

	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	err := src.Each(ctx, func(n int64, text string) error {
		seen++
		cancel()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Each() error = %v, want context.Canceled", err)
	}
	if seen != 1 {
		t.Errorf("callback ran %d times after cancel, want 1", seen)
	}
}

func TestFileSource_Each_MissingFile(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/data")
	src := NewFileSource(fs, "/data/missing.csv")

	err := src.Each(context.Background(), func(int64, string) error { return nil })
	if !errors.Is(err, sanitize.ErrStreamOpen) {
		t.Errorf("Each() error = %v, want ErrStreamOpen", err)
	}

	_, err = src.Count(context.Background())
	if !errors.Is(err, sanitize.ErrStreamOpen) {
		t.Errorf("Count() error = %v, want ErrStreamOpen", err)
	}
}

func TestFileSource_Each_LongLines(t *testing.T) {
	// A line larger than the default 64KiB bufio buffer must still read.
	long := strings.Repeat("x", 100*1024)
	src := newSource(t, "header\n"+long+"\n")

	var lines int
	var gotLong bool
	err := src.Each(context.Background(), func(n int64, text string) error {
		lines++
		if len(text) == len(long) {
			gotLong = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if lines != 2 || !gotLong {
		t.Errorf("lines = %d, gotLong = %v", lines, gotLong)
	}
}

func TestFileSource_TwoPassesAgree(t *testing.T) {
	content := "h\r\nrow1\nrow2\r\nrow3"
	src := newSource(t, content)

	total, err := src.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}

	var streamed int64
	err = src.Each(context.Background(), func(n int64, text string) error {
		streamed = n
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}

	if streamed != total {
		t.Errorf("pass disagreement: Count=%d, Each saw %d lines", total, streamed)
	}
}
