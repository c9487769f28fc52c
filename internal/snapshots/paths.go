package snapshots

import "path/filepath"

const (
	seasonDir     = "season"
	fileExt       = ".json.zst"
	manifestName  = "manifest.json"
	tempExtension = ".tmp"
)

// SeasonSnapshotPath builds the path to the compressed state snapshot for a date key.
func SeasonSnapshotPath(basePath, key string) string {
	return filepath.Join(basePath, seasonDir, key+fileExt)
}

// ManifestPath returns the manifest location under basePath.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, manifestName)
}
