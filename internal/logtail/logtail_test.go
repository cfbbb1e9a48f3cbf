package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeLines(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pshhmi.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("Line %d", i))
	}
	logPath := writeLines(t, all)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial", maxLines: 5, expected: all[5:]},
		{name: "exact", maxLines: 10, expected: all},
		{name: "more than exists", maxLines: 20, expected: all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse_Zerolog(t *testing.T) {
	line := `{"level":"warn","error":"api /update returned status 503","seq":7,"time":"2026-03-01T10:15:30Z","message":"snapshot poll dropped"}`
	e := Parse(line)

	if e.Level != "warn" || e.Message != "snapshot poll dropped" {
		t.Fatalf("Parse() = %+v", e)
	}
	if want := time.Date(2026, 3, 1, 10, 15, 30, 0, time.UTC); !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if got, want := e.FieldString(), "error=api /update returned status 503 seq=7"; got != want {
		t.Fatalf("FieldString() = %q, want %q", got, want)
	}
}

func TestParse_PlainText(t *testing.T) {
	e := Parse("  panic: something  ")
	if e.Message != "panic: something" || e.Level != "" || e.FieldString() != "" {
		t.Fatalf("Parse(plain) = %+v", e)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	path := writeLines(t, []string{
		`{"level":"info","message":"polling coordinator"}`,
		"",
		`{"level":"info","target":"mode","message":"toggle applied"}`,
	})
	entries, err := Tail(path, 3)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 2 || entries[1].Message != "toggle applied" {
		t.Fatalf("Tail() = %+v", entries)
	}
}
