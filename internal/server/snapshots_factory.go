package server

import (
	"log/slog"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/snapshots"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

type snapshotComponents struct {
	writer    *snapshots.Writer
	loader    *snapshots.FSStore
	persister *snapshots.Persister
	restored  bool
}

// buildSnapshots restores the newest snapshot into st and prepares the writer the
// poller persists through. Failures disable persistence; the service still runs.
func buildSnapshots(cfg config.Config, st *store.SeasonStore, logger *slog.Logger) snapshotComponents {
	if !cfg.Snapshots.Enabled {
		return snapshotComponents{}
	}
	basePath := cfg.Snapshots.Folder

	loader, err := snapshots.NewFSStore(basePath)
	if err != nil {
		logging.Error(logger, "snapshot store unavailable, persistence disabled", err)
		return snapshotComponents{}
	}
	restored, err := snapshots.Restore(loader, st, logger)
	if err != nil {
		logging.Warn(logger, "snapshot restore failed, starting empty", slog.Any(logging.FieldError, err))
	}

	writer, err := snapshots.NewWriter(basePath, cfg.Snapshots.RetentionDays, nil)
	if err != nil {
		loader.Close()
		logging.Error(logger, "snapshot writer unavailable, persistence disabled", err)
		return snapshotComponents{}
	}

	return snapshotComponents{
		writer:    writer,
		loader:    loader,
		persister: snapshots.NewPersister(st, writer, logger),
		restored:  restored,
	}
}

func (c snapshotComponents) close(logger *slog.Logger) {
	if c.writer != nil {
		if err := c.writer.Close(); err != nil {
			logging.Warn(logger, "snapshot writer close failed", slog.Any(logging.FieldError, err))
		}
	}
	if c.loader != nil {
		c.loader.Close()
	}
}
