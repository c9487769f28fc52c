package config

// SnapshotConfig controls on-disk persistence of the synchronized state.
type SnapshotConfig struct {
	Enabled bool
	Folder  string
	// RetentionDays counts season days behind the current date, not wall-clock days.
	RetentionDays int
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Enabled:       boolEnvOrDefault(envSnapshotsEnabled, defaultSnapshotsEnabled),
		Folder:        envOrDefault(envSnapshotFolder, defaultSnapshotFolder),
		RetentionDays: intEnvOrDefault(envSnapshotRetention, defaultSnapshotRetention),
	}
}
