package guard

import (
	"fmt"
	"strings"

	"github.com/machinae/readgate/internal/config"
)

// Action tags the outcome of policy evaluation.
type Action int

const (
	// ActionAllow passes the read through unchanged.
	ActionAllow Action = iota
	// ActionAllowAmended passes the read through with an injected limit.
	ActionAllowAmended
	// ActionBlock aborts the read.
	ActionBlock
)

// Request is one candidate read operation. Offset and Limit are nil when
// the caller did not supply them.
type Request struct {
	FilePath string
	Offset   *int
	Limit    *int
}

// Metrics are the probed size characteristics of the target file.
type Metrics struct {
	Lines int64
	Bytes int64
}

// Decision is the evaluator outcome. Exactly one is produced per request.
type Decision struct {
	Action Action
	// Limit is the injected read limit for ActionAllowAmended.
	Limit int
	// Reason is the human-readable justification for non-Allow outcomes.
	Reason string
	// Guidance is remediation text, set for ActionBlock.
	Guidance string
	// Token is the terse reason recorded in the audit log.
	Token string
}

// Audit reason tokens.
const (
	TokenPassed           = "passed"
	TokenSkipExtension    = "skip_extension"
	TokenNotFound         = "not_found"
	TokenProbeUnavailable = "probe_unavailable"
	TokenMissingPaging    = "missing_offset_limit"
	TokenLimitTooLarge    = "limit_too_large"
	TokenAutoLimit        = "auto_limit"
)

// Evaluate applies the ordered read policy to one request. It is a pure
// function of its arguments; the first applicable rule wins.
//
// Rule order: mandatory paging for oversized files, then the per-request
// limit ceiling, then limit auto-completion, then allow. A file that is
// both oversized and requested with an excessive limit reports the
// paging violation first, since supplying offset+limit is the more
// actionable fix.
func Evaluate(req Request, m Metrics, lim config.Limits) Decision {
	exceedsLines := m.Lines > int64(lim.MaxFileLines)
	exceedsBytes := m.Bytes > lim.MaxFileBytes

	if (exceedsLines || exceedsBytes) && (req.Offset == nil || req.Limit == nil) {
		var parts []string
		if exceedsLines {
			parts = append(parts, fmt.Sprintf("%d lines (>%d)", m.Lines, lim.MaxFileLines))
		}
		if exceedsBytes {
			parts = append(parts, fmt.Sprintf("%s (>%s)", FormatBytes(m.Bytes), FormatBytes(lim.MaxFileBytes)))
		}
		return Decision{
			Action:   ActionBlock,
			Reason:   fmt.Sprintf("File exceeds thresholds: %s.", strings.Join(parts, " AND ")),
			Guidance: pagingGuidance(req.FilePath, lim),
			Token:    TokenMissingPaging,
		}
	}

	if req.Limit != nil && *req.Limit > lim.MaxReadLines {
		return Decision{
			Action:   ActionBlock,
			Reason:   fmt.Sprintf("Requested limit=%d exceeds maximum %d lines.", *req.Limit, lim.MaxReadLines),
			Guidance: fmt.Sprintf("Please reduce the limit parameter to %d or less.", lim.MaxReadLines),
			Token:    TokenLimitTooLarge,
		}
	}

	// An explicit offset signals deliberate partial-read intent; a missing
	// limit there is treated as an oversight and filled in, not blocked.
	if req.Offset != nil && req.Limit == nil {
		return Decision{
			Action: ActionAllowAmended,
			Limit:  lim.MaxReadLines,
			Reason: fmt.Sprintf("Auto-added limit=%d (file: %d lines, %s)", lim.MaxReadLines, m.Lines, FormatBytes(m.Bytes)),
			Token:  TokenAutoLimit,
		}
	}

	return Decision{Action: ActionAllow, Token: TokenPassed}
}

func pagingGuidance(path string, lim config.Limits) string {
	return fmt.Sprintf(
		"You MUST specify both 'offset' and 'limit' parameters.\n\n"+
			"Recommended approach:\n"+
			"1. Use Grep to find target line numbers first\n"+
			"2. Then Read with offset and limit (max %d lines / %s)\n\n"+
			"Example:\n"+
			"  Grep: pattern=\"function_name\" path=%q\n"+
			"  Read: file_path=%q, offset=<line-5>, limit=50",
		lim.MaxReadLines, FormatBytes(lim.MaxReadBytes), path, path,
	)
}

// FormatBytes renders a byte count with binary units and one decimal
// place, switching units at the 1KB and 1MB boundaries.
func FormatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
