package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/machinae/readgate/internal/audit"
	"github.com/machinae/readgate/internal/config"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the read audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var cutoff time.Time
			if since > 0 {
				cutoff = time.Now().Add(-since)
			}

			sum, err := audit.Summarize(cfg.StatsLogPath(), cutoff)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %d\nallowed: %d\nblocked: %d\n", sum.Total, sum.Allowed, sum.Blocked)
			if len(sum.Reasons) > 0 {
				fmt.Fprintln(out, "reasons:")
				reasons := make([]string, 0, len(sum.Reasons))
				for r := range sum.Reasons {
					reasons = append(reasons, r)
				}
				sort.Strings(reasons)
				for _, r := range reasons {
					fmt.Fprintf(out, "  %s: %d\n", r, sum.Reasons[r])
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "Only include entries newer than this duration (e.g. 24h)")
	return cmd
}
