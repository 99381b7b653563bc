package inspector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "w.log")
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailLastN(t *testing.T) {
	path := writeLog(t, "l1\nl2\nl3\nl4\nl5\nl6\nl7\n")
	lines, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	want := []string{"l3", "l4", "l5", "l6", "l7"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestTailShortFile(t *testing.T) {
	path := writeLog(t, "only\ntwo\n")
	lines, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "only" || lines[1] != "two" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestTailNoTrailingNewline(t *testing.T) {
	path := writeLog(t, "a\nb\nc")
	lines, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestTailEmptyFile(t *testing.T) {
	path := writeLog(t, "")
	lines, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestTailZeroCount(t *testing.T) {
	lines, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 0)
	if err != nil || lines != nil {
		t.Fatalf("n=0 should be a no-op, got %v %v", lines, err)
	}
}

func TestTailMissingFile(t *testing.T) {
	_, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err == nil || !os.IsNotExist(err) {
		t.Fatalf("expected IsNotExist, got %v", err)
	}
}

// The backward read must stay correct when the tail spans multiple
// read chunks.
func TestTailSpansChunks(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		fmt.Fprintf(&sb, "line-%04d padding padding padding\n", i)
	}
	path := writeLog(t, sb.String())
	lines, err := Tail(path, 5)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "line-1995") || !strings.HasPrefix(lines[4], "line-1999") {
		t.Fatalf("wrong window: first=%q last=%q", lines[0], lines[4])
	}
}
