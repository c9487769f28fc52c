package snapshots

import (
	"os"
	"time"

	"github.com/goccy/go-json"
)

const manifestVersion = 2

// Manifest tracks which snapshots exist and when they were last refreshed.
type Manifest struct {
	Version     int        `json:"version"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Retention   Retention  `json:"retention"`
	Season      SeasonMeta `json:"season"`
}

type Retention struct {
	Days int `json:"days"`
}

// SeasonMeta lists snapshot date keys in chronological order.
type SeasonMeta struct {
	SeasonID      uint32    `json:"seasonId"`
	Dates         []string  `json:"dates"`
	LastRefreshed time.Time `json:"lastRefreshed"`
}

// Latest returns the newest snapshot date key.
func (m Manifest) Latest() (string, bool) {
	if len(m.Season.Dates) == 0 {
		return "", false
	}
	return m.Season.Dates[len(m.Season.Dates)-1], true
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:   manifestVersion,
		Retention: Retention{Days: retentionDays},
		Season:    SeasonMeta{Dates: []string{}},
	}
}

// ReadManifest loads the manifest under basePath.
func ReadManifest(basePath string) (Manifest, error) {
	data, err := os.ReadFile(ManifestPath(basePath))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(ManifestPath(basePath), data)
}

func writeAtomic(target string, data []byte) error {
	tmp := target + tempExtension
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
