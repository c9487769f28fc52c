package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
	"github.com/preston-bernstein/season-sync-service/internal/snapshots"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

type dumpOptions struct {
	fromSnapshot bool
	key          string
	output       string
	compress     bool
	timeout      time.Duration
}

func newDumpCmd(root *rootOptions) *cobra.Command {
	opts := &dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the normalized state as JSON",
		Long: `Refresh everything from the backend and print the normalized state, or with
--from-snapshot print a stored snapshot instead (the newest unless --key is set).

Examples:
  seasonctl dump --provider fixture
  seasonctl dump --from-snapshot --key 2024-1-15
  seasonctl dump --zstd -o state.json.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}

			var state store.State
			if opts.fromSnapshot {
				doc, err := loadSnapshot(cfg.Snapshots.Folder, opts.key)
				if err != nil {
					return err
				}
				state = doc.State
			} else {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				defer cancel()
				st, err := refreshState(ctx, cfg, logger, seasonsync.OpAll)
				if err != nil {
					return err
				}
				state = st.Snapshot()
			}

			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return writeDump(out, state, opts.compress)
		},
	}
	cmd.Flags().BoolVar(&opts.fromSnapshot, "from-snapshot", false, "read the state from the snapshot folder instead of the backend")
	cmd.Flags().StringVar(&opts.key, "key", "", "snapshot date key (Y-M-D); defaults to the newest")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.compress, "zstd", false, "zstd-compress the output")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall deadline for the refresh")
	return cmd
}

func loadSnapshot(folder, key string) (snapshots.Document, error) {
	fs, err := snapshots.NewFSStore(folder)
	if err != nil {
		return snapshots.Document{}, err
	}
	defer fs.Close()
	if key == "" {
		return fs.Latest()
	}
	return fs.Load(key)
}

func writeDump(w io.Writer, state store.State, compress bool) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')
	if !compress {
		_, err = w.Write(data)
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
