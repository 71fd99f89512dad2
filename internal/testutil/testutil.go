// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the helpers used to inspect generated point files
// so writer, command and end-to-end tests read output the same way.
package testutil

import (
	"os"
	"strconv"
	"strings"
	"testing"
)

// SplitLines splits file content into lines, dropping the final newline.
func SplitLines(data []byte) []string {
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// ReadLines reads path from disk and returns its lines.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return SplitLines(data)
}

// ParseFields splits a line on sep (whitespace when sep is empty) and parses
// every field as a float.
func ParseFields(t *testing.T, line, sep string) []float64 {
	t.Helper()
	var fields []string
	if sep == "" {
		fields = strings.Fields(line)
	} else {
		fields = strings.Split(line, sep)
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			t.Fatalf("line %q field %d: %v", line, i, err)
		}
		out[i] = v
	}
	return out
}
