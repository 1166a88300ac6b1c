package compare

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ujjwalhq/prism/internal/models"
)

func TestCompareAllPairOrder(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "a.py", Content: "x = 1\n"},
		{ID: "b.py", Content: "y = 2\n"},
		{ID: "c.py", Content: "z = 3\n"},
	}

	rows, statuses, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(statuses) != 3 {
		t.Fatalf("statuses = %d, want 3", len(statuses))
	}

	wantPairs := [][2]string{
		{"a.py", "b.py"},
		{"a.py", "c.py"},
		{"b.py", "c.py"},
	}
	for i, want := range wantPairs {
		if rows[i].FileA != want[0] || rows[i].FileB != want[1] {
			t.Fatalf("row %d = (%s, %s), want (%s, %s)",
				i, rows[i].FileA, rows[i].FileB, want[0], want[1])
		}
	}
}

func TestCompareAllIdenticalSourcesAreDirectCopy(t *testing.T) {
	src := "def add(a, b):\n    return a + b\n"
	sources := []models.SourceInput{
		{ID: "left.py", Content: src},
		{ID: "right.py", Content: src},
	}

	rows, _, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if row.Scores.Lexical != 1.0 || row.Scores.Structural != 1.0 {
		t.Fatalf("scores = %+v, want both similarities 1.0", row.Scores)
	}
	if row.Verdict != models.VerdictDirectCopy {
		t.Fatalf("verdict = %s, want DIRECT_COPY", row.Verdict)
	}
	if len(row.Explanation) == 0 {
		t.Fatalf("expected a non-empty explanation")
	}
}

func TestCompareAllRenamedSource(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "orig.py", Content: "def add(a, b):\n    return a + b\n"},
		{ID: "renamed.py", Content: "def sum_values(x, y):\n    return x + y\n"},
	}

	rows, _, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}

	row := rows[0]
	if row.Scores.Structural != 1.0 {
		t.Fatalf("structural = %v, want 1.0 for a pure rename", row.Scores.Structural)
	}
	if row.Scores.Lexical >= 0.85 {
		t.Fatalf("lexical = %v, want it pulled down by renaming", row.Scores.Lexical)
	}
	if row.Signals.Divergence <= 0 {
		t.Fatalf("divergence = %v, want positive", row.Signals.Divergence)
	}
	if row.Verdict == models.VerdictLikelyOriginal {
		t.Fatalf("verdict = %s, a pure rename must not read as original", row.Verdict)
	}
}

func TestCompareAllRejectsOversized(t *testing.T) {
	e := NewEngine()
	e.MaxSourceBytes = 16

	sources := []models.SourceInput{
		{ID: "big.py", Content: strings.Repeat("x = 1\n", 10)},
		{ID: "a.py", Content: "x = 1\n"},
		{ID: "b.py", Content: "y = 2\n"},
	}

	rows, statuses, err := e.CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 pair from the two accepted files", len(rows))
	}
	if rows[0].FileA != "a.py" || rows[0].FileB != "b.py" {
		t.Fatalf("pair = (%s, %s), rejected file leaked in", rows[0].FileA, rows[0].FileB)
	}
	if statuses[0].Code != models.StatusOversizedInput {
		t.Fatalf("status = %s, want OVERSIZED_INPUT", statuses[0].Code)
	}
	if statuses[0].Error == "" {
		t.Fatalf("rejection carries no error detail")
	}
}

func TestCompareAllRejectsInvalidEncoding(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "bad.py", Content: "x = 1\n\xff\xfe"},
		{ID: "a.py", Content: "x = 1\n"},
		{ID: "b.py", Content: "y = 2\n"},
	}

	rows, statuses, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}

	if statuses[0].Code != models.StatusUnsupportedEncoding {
		t.Fatalf("status = %s, want UNSUPPORTED_ENCODING", statuses[0].Code)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

func TestCompareAllEmptyInputFlaggedButCompared(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "empty.py", Content: "# nothing but a comment\n"},
		{ID: "code.py", Content: "x = 1\n"},
	}

	rows, statuses, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}

	if statuses[0].Code != models.StatusEmptyInput {
		t.Fatalf("status = %s, want EMPTY_INPUT", statuses[0].Code)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want the flagged file still compared", len(rows))
	}

	row := rows[0]
	if row.Scores.Lexical != 0.0 || row.Scores.Structural != 0.0 {
		t.Fatalf("scores = %+v, want 0.0 against an empty token sequence", row.Scores)
	}
	if row.Verdict != models.VerdictLikelyOriginal {
		t.Fatalf("verdict = %s, want LIKELY_ORIGINAL", row.Verdict)
	}
}

func TestCompareAllBothEmpty(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "a.py", Content: ""},
		{ID: "b.py", Content: "# comment only\n"},
	}

	rows, _, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if rows[0].Scores.Lexical != 1.0 || rows[0].Scores.Structural != 1.0 {
		t.Fatalf("scores = %+v, want 1.0 for two empty token sequences", rows[0].Scores)
	}
}

func TestCompareAllSingleAcceptedSource(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "only.py", Content: "x = 1\n"},
	}

	rows, statuses, err := NewEngine().CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("CompareAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0 from a single file", len(rows))
	}
	if statuses[0].Code != models.StatusOK {
		t.Fatalf("status = %s, want OK", statuses[0].Code)
	}
}

func TestCompareAllParallelMatchesSequential(t *testing.T) {
	sources := []models.SourceInput{
		{ID: "a.py", Content: "def add(a, b):\n    return a + b\n"},
		{ID: "b.py", Content: "def sum_values(x, y):\n    return x + y\n"},
		{ID: "c.py", Content: "def greet(name):\n    print(name)\n"},
		{ID: "d.py", Content: "for i in range(10):\n    total += i\n"},
	}

	e := NewEngine()
	sequential, _, err := e.CompareAll(context.Background(), sources, nil)
	if err != nil {
		t.Fatalf("sequential CompareAll: %v", err)
	}

	pool := NewWorkerPool(context.Background())
	defer pool.Close()

	parallel, _, err := e.CompareAll(context.Background(), sources, pool)
	if err != nil {
		t.Fatalf("parallel CompareAll: %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatalf("parallel rows differ from sequential:\n%+v\nvs\n%+v", parallel, sequential)
	}
}

func TestCompareUnitsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine()
	units := []*models.SourceUnit{
		mustUnit(t, "a", "x = 1\n"),
		mustUnit(t, "b", "y = 2\n"),
	}

	pool := NewWorkerPool(context.Background())
	defer pool.Close()

	if _, err := e.CompareUnits(ctx, units, pool); err == nil {
		t.Fatalf("expected a context error")
	}
}
