package snapshots

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/itbasis/go-clock"
	"github.com/klauspost/compress/zstd"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
)

const defaultRetentionDays = 14

// ErrNoCurrentDate is returned when the state has not been synchronized yet.
var ErrNoCurrentDate = errors.New("snapshot requires a current date")

// Writer persists zstd-compressed state snapshots keyed by season date and prunes
// snapshots that fall out of the retention window.
type Writer struct {
	basePath      string
	retentionDays int
	clock         clock.Clock

	mu      sync.Mutex
	encoder *zstd.Encoder
}

// NewWriter constructs a writer rooted at basePath. A nil clock uses wall time.
func NewWriter(basePath string, retentionDays int, clk clock.Clock) (*Writer, error) {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	if clk == nil {
		clk = clock.New()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		clock:         clk,
		encoder:       enc,
	}, nil
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Write stores doc under its date key, refreshes the manifest and prunes old snapshots.
// Unchanged content is not rewritten.
func (w *Writer) Write(doc Document) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if doc.Key == "" || doc.State.CurrentDate.IsZero() {
		return ErrNoCurrentDate
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	target := SeasonSnapshotPath(w.basePath, doc.Key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	data := w.encoder.EncodeAll(raw, nil)

	if existing, err := os.ReadFile(target); err != nil || !bytes.Equal(existing, data) {
		if err := writeAtomic(target, data); err != nil {
			return err
		}
	}
	return w.updateManifest(doc)
}

// Close releases the encoder.
func (w *Writer) Close() error {
	if w == nil || w.encoder == nil {
		return nil
	}
	return w.encoder.Close()
}

func (w *Writer) updateManifest(doc Document) error {
	m, err := ReadManifest(w.basePath)
	if err != nil {
		m = defaultManifest(w.retentionDays)
	}

	keys, err := w.listKeys()
	if err != nil {
		return err
	}
	kept := w.prune(keys, doc.State.CurrentDate)

	now := w.clock.Now().UTC()
	m.Version = manifestVersion
	m.Retention.Days = w.retentionDays
	m.Season.SeasonID = doc.State.SeasonID
	m.Season.Dates = kept
	m.Season.LastRefreshed = now
	return writeManifest(w.basePath, m, now)
}

// listKeys returns the stored date keys in chronological order. Unparseable names are skipped.
func (w *Writer) listKeys() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, seasonDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	type dated struct {
		key  string
		date calendar.Date
	}
	var found []dated
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		date, err := calendar.ParseKey(key)
		if err != nil {
			continue
		}
		found = append(found, dated{key: key, date: date})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].date.Before(found[j].date) })

	keys := make([]string, len(found))
	for i, d := range found {
		keys[i] = d.key
	}
	return keys, nil
}

// prune removes snapshots more than retentionDays before the season's current date.
// Season dates are not wall-clock dates, so the window follows the season.
func (w *Writer) prune(keys []string, current calendar.Date) []string {
	cutoff := current.AddDays(-w.retentionDays)
	kept := make([]string, 0, len(keys))
	for _, key := range keys {
		date, _ := calendar.ParseKey(key)
		if date.Before(cutoff) {
			_ = os.Remove(SeasonSnapshotPath(w.basePath, key))
			continue
		}
		kept = append(kept, key)
	}
	return kept
}
