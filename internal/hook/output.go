package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// EventName identifies the hook event this binary serves.
const EventName = "PreToolUse"

// Output is the optional stdout payload for a non-blocking decision.
// An allow with no parameter changes emits nothing at all.
type Output struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput is the PreToolUse-specific permission payload.
type SpecificOutput struct {
	HookEventName            string        `json:"hookEventName"`
	PermissionDecision       string        `json:"permissionDecision"`
	PermissionDecisionReason string        `json:"permissionDecisionReason"`
	UpdatedInput             *UpdatedInput `json:"updatedInput,omitempty"`
}

// UpdatedInput injects parameters into the original tool call.
type UpdatedInput struct {
	Limit int `json:"limit"`
}

// WriteAmended emits an allow payload that injects limit into the
// original Read call, with reason as the human-readable justification.
func WriteAmended(w io.Writer, reason string, limit int) error {
	out := Output{
		HookSpecificOutput: &SpecificOutput{
			HookEventName:            EventName,
			PermissionDecision:       "allow",
			PermissionDecisionReason: reason,
			UpdatedInput:             &UpdatedInput{Limit: limit},
		},
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode hook output: %w", err)
	}
	return nil
}
