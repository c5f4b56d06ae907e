// Package hook implements the PreToolUse stdin/stdout protocol spoken by
// the host agent: one JSON event in, an optional permission payload out.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// Input is the JSON payload the host writes to stdin for a PreToolUse event.
type Input struct {
	SessionID string    `json:"session_id"`
	ToolName  string    `json:"tool_name"`
	ToolInput ToolInput `json:"tool_input"`
}

// ToolInput carries the Read tool parameters. Offset and Limit are
// pointers so an absent parameter is distinguishable from zero.
type ToolInput struct {
	FilePath string `json:"file_path"`
	Offset   *int   `json:"offset,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
}

// ReadInput decodes a single PreToolUse event from r. A decode failure
// means the hook invocation itself is malformed, not that the guarded
// operation should be blocked.
func ReadInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hook input: %w", err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode hook input: %w", err)
	}
	return &in, nil
}
