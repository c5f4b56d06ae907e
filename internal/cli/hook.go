package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/machinae/readgate/internal/audit"
	"github.com/machinae/readgate/internal/config"
	"github.com/machinae/readgate/internal/guard"
	"github.com/machinae/readgate/internal/hook"
	"github.com/machinae/readgate/internal/logging"
	"github.com/spf13/cobra"
)

// guardedTool is the only tool this hook inspects.
const guardedTool = "Read"

// blockExitCode tells the host the operation was intentionally denied.
// A plain error (exit 1 via main) means the hook itself malfunctioned.
const blockExitCode = 2

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Run as a PreToolUse hook (reads one event from stdin)",
		Long: `Gate a Read tool call behind file-size policy. Reads a single
PreToolUse JSON event from stdin.

Exit codes:
  0  allow (stdout may carry an updatedInput payload)
  2  block (reason and guidance on stderr)
  1  the hook invocation itself was malformed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var sink audit.Sink = audit.NopSink{}
			if cfg.Audit.Enabled {
				sink = audit.NewFileSink(cfg.StatsLogPath())
			}

			code, err := runHook(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, sink)
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

// runHook executes one guard invocation and returns the process exit
// code. A returned error means the hook malfunctioned, not that the read
// was denied.
func runHook(stdin io.Reader, stdout, stderr io.Writer, cfg *config.Config, sink audit.Sink) (int, error) {
	in, err := hook.ReadInput(stdin)
	if err != nil {
		return 0, err
	}

	// Fast bypass for every other tool: no probe, no audit entry.
	if in.ToolName != guardedTool {
		return 0, nil
	}

	req := guard.Request{
		FilePath: in.ToolInput.FilePath,
		Offset:   in.ToolInput.Offset,
		Limit:    in.ToolInput.Limit,
	}
	d := guard.New(cfg, sink).Check(in.SessionID, req)

	switch d.Action {
	case guard.ActionBlock:
		fmt.Fprintf(stderr, "BLOCKED: %s\n%s\n", d.Reason, d.Guidance)
		return blockExitCode, nil
	case guard.ActionAllowAmended:
		logging.Logger().Debug("amended read request", "path", req.FilePath, "limit", d.Limit)
		if err := hook.WriteAmended(stdout, d.Reason, d.Limit); err != nil {
			return 0, err
		}
	}
	return 0, nil
}
