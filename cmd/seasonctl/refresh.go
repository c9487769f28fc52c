package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
	"github.com/preston-bernstein/season-sync-service/internal/server"
	"github.com/preston-bernstein/season-sync-service/internal/snapshots"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

type refreshSummary struct {
	Operation   seasonsync.Operation `json:"operation"`
	SeasonID    uint32               `json:"seasonId"`
	CurrentDate string               `json:"currentDate,omitempty"`
	Dates       int                  `json:"dates"`
	Games       int                  `json:"games"`
	Combatants  int                  `json:"combatants"`
	Teams       int                  `json:"teams"`
	Statlines   int                  `json:"statlines"`
	Snapshot    string               `json:"snapshot,omitempty"`
	DurationMS  int64                `json:"durationMs"`
}

func newRefreshCmd(root *rootOptions) *cobra.Command {
	var (
		op      string
		persist bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh against the backend and print a summary",
		Long: `Run one refresh operation (all, schedule, world, stats or summaries) and
print counts of the resulting state. With --persist the state is written to the
snapshot folder the server restores from on boot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			operation, err := seasonsync.ParseOperation(op)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			start := time.Now()
			st, err := refreshState(ctx, cfg, logger, operation)
			if err != nil {
				return err
			}
			summary := summarize(operation, st)
			if persist {
				path, err := persistState(cfg, st)
				if err != nil {
					return err
				}
				summary.Snapshot = path
			}
			summary.DurationMS = time.Since(start).Milliseconds()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	cmd.Flags().StringVar(&op, "op", string(seasonsync.OpAll), "refresh operation: all, schedule, world, stats or summaries")
	cmd.Flags().BoolVar(&persist, "persist", false, "write a snapshot of the refreshed state")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the refresh")
	return cmd
}

// refreshState runs op against the configured provider into a fresh store.
func refreshState(ctx context.Context, cfg config.Config, logger *slog.Logger, op seasonsync.Operation) (*store.SeasonStore, error) {
	provider, release := server.NewProvider(cfg, logger, nil)
	defer release()

	st := store.NewSeasonStore(nil)
	sync := seasonsync.New(provider, st, seasonsync.Options{Logger: logger, SeasonID: cfg.SeasonID})
	if err := sync.Refresh(ctx, op); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", op, err)
	}
	logging.Debug(logger, "refresh complete", logging.FieldOperation, string(op))
	return st, nil
}

func persistState(cfg config.Config, st *store.SeasonStore) (string, error) {
	w, err := snapshots.NewWriter(cfg.Snapshots.Folder, cfg.Snapshots.RetentionDays, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = w.Close() }()

	doc := snapshots.NewDocument(st.Snapshot())
	if err := w.Write(doc); err != nil {
		return "", err
	}
	return snapshots.SeasonSnapshotPath(w.BasePath(), doc.Key), nil
}

func summarize(op seasonsync.Operation, st *store.SeasonStore) refreshSummary {
	view := st.Schedule()
	world := st.World()
	summary := refreshSummary{
		Operation:  op,
		SeasonID:   st.SeasonID(),
		Dates:      view.Len(),
		Games:      view.Total(),
		Combatants: len(world.Combatants),
		Teams:      len(world.Teams),
		Statlines:  len(st.Statlines()),
	}
	if current := st.CurrentDate(); !current.IsZero() {
		summary.CurrentDate = current.Key()
	}
	return summary
}
