package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkScanDirectory benchmarks directory scanning with real filesystem
func BenchmarkScanDirectory(b *testing.B) {
	// Create temporary directory structure for benchmarking
	tempDir := b.TempDir()

	// Create test files
	for i := 0; i < 10; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("test%d.csv", i))
		content := "id*|*name*|*price\n1*|*widget*|*9.99\n2*|*gadget*|*19.99\n"
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			b.Fatal(err)
		}
	}

	fileScanner := NewScanner(".csv")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := fileScanner.ScanDirectory(tempDir)
		if err != nil {
			b.Fatal(err)
		}
	}
}
