package bill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 50 * time.Millisecond

// maxSuggestionDistance is the largest edit distance still offered as a
// "did you mean" hint.
const maxSuggestionDistance = 2

// FixtureResolver serves records loaded from a YAML file. The file holds a
// sequence of records keyed by their referenceNumber.
type FixtureResolver struct {
	path   string
	logger *logging.Logger

	mu      sync.RWMutex
	records map[string]Record
}

// FixtureOption configures a FixtureResolver.
type FixtureOption func(*FixtureResolver)

// WithFixtureLogger sets the logger used for reload messages.
func WithFixtureLogger(l *logging.Logger) FixtureOption {
	return func(f *FixtureResolver) {
		f.logger = l
	}
}

// NewFixtureResolver loads path.
func NewFixtureResolver(path string, opts ...FixtureOption) (*FixtureResolver, error) {
	f := &FixtureResolver{
		path:   path,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFixtureResolverFromRecords builds an in-memory resolver with no backing
// file. Reload and Watch are no-ops.
func NewFixtureResolverFromRecords(records []Record) *FixtureResolver {
	f := &FixtureResolver{logger: logging.NopLogger()}
	f.records = index(records)
	return f
}

// LoadRecords parses a YAML sequence of records.
func LoadRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse bill fixtures: %w", err)
	}
	for i, rec := range records {
		norm, err := NormalizeReference(rec.ReferenceNumber)
		if err != nil {
			return nil, fmt.Errorf("bill fixture %d: %w", i, err)
		}
		records[i].ReferenceNumber = norm
	}
	return records, nil
}

func index(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for _, rec := range records {
		m[rec.ReferenceNumber] = rec
	}
	return m
}

// Reload re-reads the fixture file. On error the previous records stay in
// place.
func (f *FixtureResolver) Reload() error {
	if f.path == "" {
		return nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to read bill fixtures: %w", err)
	}
	records, err := LoadRecords(data)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.records = index(records)
	f.mu.Unlock()
	return nil
}

// Resolve implements Resolver.
func (f *FixtureResolver) Resolve(ctx context.Context, reference string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, errors.NewResolutionError(errors.Unreachable, reference, err)
	}

	f.mu.RLock()
	rec, ok := f.records[reference]
	f.mu.RUnlock()
	if ok {
		return rec, nil
	}

	resErr := errors.NewResolutionError(errors.UnknownReference, reference, nil)
	if s := f.Suggest(reference); s != "" {
		resErr = resErr.WithSuggestion(s)
	}
	return Record{}, resErr
}

// References returns the known references in sorted order.
func (f *FixtureResolver) References() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	refs := make([]string, 0, len(f.records))
	for ref := range f.records {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Suggest returns the closest known reference within a small edit distance,
// or "" when nothing is close. Ties go to the lexically smaller reference.
func (f *FixtureResolver) Suggest(reference string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, ref := range f.References() {
		d := levenshtein.ComputeDistance(reference, ref)
		if d < bestDist {
			best, bestDist = ref, d
		}
	}
	return best
}

// Watch reloads the fixture file whenever it changes, until ctx is done.
// It watches the parent directory so editors that replace the file on save
// are still picked up.
func (f *FixtureResolver) Watch(ctx context.Context) error {
	if f.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fixture watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("failed to watch fixture directory: %w", err)
	}

	target := filepath.Clean(f.path)
	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			if err := f.Reload(); err != nil {
				f.logger.Warn("bill fixture reload failed", "path", f.path, "error", err)
				continue
			}
			f.logger.Info("bill fixtures reloaded", "path", f.path, "count", len(f.References()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("bill fixture watcher error", "error", err)
		}
	}
}
