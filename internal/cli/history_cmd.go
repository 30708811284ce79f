package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/x100-tools/x100/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent health snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWorkspace(); err != nil {
				return err
			}

			history := openHistory()
			defer history.Close()

			snaps, err := history.Recent(limit)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Println("No snapshots recorded yet. Run 'x100 nextstep' first.")
				return nil
			}

			fmt.Printf("Last %d snapshots (newest first):\n\n", len(snaps))
			for i, snap := range snaps {
				fmt.Printf("  %s  %3d/100 %s  %s\n",
					snap.CreatedAt.Format("2006-01-02 15:04"),
					snap.Overall,
					trendMarker(snaps, i),
					snap.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of snapshots to show")

	return cmd
}

// trendMarker compares a snapshot against the next older one. The oldest
// entry has nothing to compare with and gets a blank marker.
func trendMarker(snaps []store.Snapshot, i int) string {
	if i+1 >= len(snaps) {
		return " "
	}
	older := snaps[i+1]
	switch {
	case snaps[i].Overall > older.Overall:
		return "↑"
	case snaps[i].Overall < older.Overall:
		return "↓"
	default:
		return "="
	}
}
