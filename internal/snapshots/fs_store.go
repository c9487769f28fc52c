package snapshots

import (
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ErrNoSnapshots is returned when the manifest lists no snapshots.
var ErrNoSnapshots = errors.New("no snapshots available")

// Store defines how snapshots are loaded.
type Store interface {
	Load(key string) (Document, error)
	Latest() (Document, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
	decoder  *zstd.Decoder
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) (*FSStore, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &FSStore{basePath: basePath, decoder: dec}, nil
}

// Load reads the snapshot stored under a date key.
func (s *FSStore) Load(key string) (Document, error) {
	if s == nil {
		return Document{}, errors.New("snapshot store not configured")
	}
	if key == "" {
		return Document{}, errors.New("snapshot date key required")
	}
	compressed, err := os.ReadFile(SeasonSnapshotPath(s.basePath, key))
	if err != nil {
		return Document{}, err
	}
	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Document{}, fmt.Errorf("snapshot %s: %w", key, err)
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return Document{}, err
	}
	if doc.Key == "" {
		doc.Key = key
	}
	return doc, nil
}

// Latest loads the newest snapshot listed in the manifest.
func (s *FSStore) Latest() (Document, error) {
	if s == nil {
		return Document{}, errors.New("snapshot store not configured")
	}
	m, err := ReadManifest(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, ErrNoSnapshots
		}
		return Document{}, err
	}
	key, ok := m.Latest()
	if !ok {
		return Document{}, ErrNoSnapshots
	}
	return s.Load(key)
}

// Close releases the decoder.
func (s *FSStore) Close() {
	if s != nil && s.decoder != nil {
		s.decoder.Close()
	}
}
