package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Summary aggregates audit entries for the stats command.
type Summary struct {
	Total   int
	Allowed int
	Blocked int
	Reasons map[string]int
}

// Summarize scans the JSONL log and aggregates entries at or after since.
// A zero since includes everything. Malformed lines are skipped; a
// missing log yields an empty summary.
func Summarize(path string, since time.Time) (Summary, error) {
	sum := Summary{Reasons: map[string]int{}}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sum, nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}

		sum.Total++
		if e.Status == StatusBlocked {
			sum.Blocked++
		} else {
			sum.Allowed++
		}
		if e.Reason != "" {
			sum.Reasons[e.Reason]++
		}
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("scan audit log: %w", err)
	}

	return sum, nil
}
