package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"timestamp":  time.Now().Format(time.RFC3339),
			"count":      rand.Intn(100),
			"enabled":    rand.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}
	return result
}

// generateCSV creates a header plus rows of comma separated cells
func generateCSV(columns, rows int) string {
	var b strings.Builder
	for c := 0; c < columns; c++ {
		if c > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "col_%d", c)
	}
	b.WriteString("\n")
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			if c > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "v%d_%d", r, rand.Intn(1000))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BenchmarkMergeDeepNesting benchmarks merging deeply nested JSON files
func BenchmarkMergeDeepNesting(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir, err := os.MkdirTemp("", "scriptkit-bench-merge")
	require.NoError(b, err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing directory: %v\n", err)
		}
	}()

	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			paths := make([]string, 2)
			for i := range paths {
				data, err := json.MarshalIndent(generateNestedJSON(depth.depth, depth.width), "", "  ")
				require.NoError(b, err)
				paths[i] = filepath.Join(tempDir, fmt.Sprintf("%s_%d.json", depth.name, i))
				require.NoError(b, os.WriteFile(paths[i], data, 0o644))
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				code, _, stderr := runTool(b, "data", "json", "merge", paths[0], paths[1])
				require.Equal(b, 0, code, stderr)
			}
		})
	}
}

// BenchmarkCSVToJSON benchmarks CSV parsing at several table sizes
func BenchmarkCSVToJSON(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	sizes := []struct {
		name    string
		columns int
		rows    int
	}{
		{"Narrow", 3, 100},
		{"Wide", 50, 20},
		{"Tall", 5, 1000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			input := generateCSV(size.columns, size.rows)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				code, _, stderr := runTool(b, "data", "csv", "tojson", input)
				require.Equal(b, 0, code, stderr)
			}
		})
	}
}
