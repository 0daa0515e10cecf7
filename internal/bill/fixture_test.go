package bill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

const fixtureYAML = `
- referenceNumber: abc-123
  customerName: Ada Obi
  address: 12 Marina Road
  issueDate: "2024-05-01"
  dueDate: "2024-05-21"
  unitsConsumed: 600
  ratePerUnit: 30
  amount: 18000
  taxRate: 7.5
  taxAmount: 1350
  totalAmount: 19350
- referenceNumber: PHC-0042
  customerName: Tunde Bello
  unitsConsumed: 0
  ratePerUnit: 28
`

func writeFixtures(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bills.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixtures: %v", err)
	}
	return path
}

func TestFixtureResolver_Resolve(t *testing.T) {
	path := writeFixtures(t, t.TempDir(), fixtureYAML)
	r, err := NewFixtureResolver(path)
	if err != nil {
		t.Fatalf("NewFixtureResolver() error = %v", err)
	}

	rec, err := r.Resolve(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rec.ReferenceNumber != "ABC-123" {
		t.Errorf("ReferenceNumber = %q, want normalized ABC-123", rec.ReferenceNumber)
	}
	if rec.UnitsConsumed != 600 || rec.RatePerUnit != 30 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.IssueDate != "2024-05-01" {
		t.Errorf("IssueDate = %q", rec.IssueDate)
	}

	if got := r.References(); len(got) != 2 || got[0] != "ABC-123" || got[1] != "PHC-0042" {
		t.Errorf("References() = %v", got)
	}
}

func TestFixtureResolver_UnknownWithSuggestion(t *testing.T) {
	r := NewFixtureResolverFromRecords([]Record{
		{ReferenceNumber: "ABC-123"},
		{ReferenceNumber: "XYZ-999"},
	})

	tests := []struct {
		ref        string
		suggestion string
	}{
		{"ABC-124", "ABC-123"},
		{"ABD-124", "ABC-123"},
		{"QQQ-000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.ref)
			var resErr *errors.ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("Resolve() error = %v, want ResolutionError", err)
			}
			if resErr.Kind != errors.UnknownReference {
				t.Errorf("Kind = %v, want UnknownReference", resErr.Kind)
			}
			if resErr.Suggestion != tt.suggestion {
				t.Errorf("Suggestion = %q, want %q", resErr.Suggestion, tt.suggestion)
			}
		})
	}
}

func TestFixtureResolver_CancelledContext(t *testing.T) {
	r := NewFixtureResolverFromRecords([]Record{{ReferenceNumber: "ABC-123"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Resolve(ctx, "ABC-123"); !errors.Is(err, errors.ErrResolverUnreachable) {
		t.Errorf("Resolve() error = %v, want unreachable", err)
	}
}

func TestLoadRecords_InvalidReference(t *testing.T) {
	_, err := LoadRecords([]byte("- referenceNumber: '??'\n"))
	if !errors.Is(err, errors.ErrMalformedReference) {
		t.Errorf("LoadRecords() error = %v, want malformed reference", err)
	}
}

func TestFixtureResolver_ReloadKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtures(t, dir, fixtureYAML)
	r, err := NewFixtureResolver(path)
	if err != nil {
		t.Fatalf("NewFixtureResolver() error = %v", err)
	}

	writeFixtures(t, dir, "{{{ not yaml")
	if err := r.Reload(); err == nil {
		t.Fatal("Reload() should fail on invalid YAML")
	}
	if _, err := r.Resolve(context.Background(), "ABC-123"); err != nil {
		t.Errorf("previous records should survive a failed reload: %v", err)
	}
}

func TestFixtureResolver_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtures(t, dir, fixtureYAML)
	r, err := NewFixtureResolver(path)
	if err != nil {
		t.Fatalf("NewFixtureResolver() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeFixtures(t, dir, fixtureYAML+"- referenceNumber: NEW-0001\n  unitsConsumed: 100\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := r.Resolve(context.Background(), "NEW-0001"); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("fixture change was not picked up by Watch")
}
