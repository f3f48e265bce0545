// Package hook defines the wire contract with the host coding agent: the
// PermissionRequest JSON delivered on stdin and the decision envelope
// written back on stdout.
package hook

// Input is the JSON request the host agent delivers on stdin for each
// permission request. Only the fields relevant to the named tool are
// consumed; unknown fields are ignored.
type Input struct {
	SessionID      string        `json:"session_id"`
	TranscriptPath string        `json:"transcript_path"`
	Cwd            string        `json:"cwd"`
	PermissionMode string        `json:"permission_mode"`
	HookEventName  string        `json:"hook_event_name"`
	ToolName       string        `json:"tool_name"`
	ToolInput      ToolInputData `json:"tool_input"`
}

// ToolInputData carries the tool-specific arguments. Which field matters
// depends on Input.ToolName.
type ToolInputData struct {
	Command      string `json:"command,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	NotebookPath string `json:"notebook_path,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Output is the envelope written to stdout. Exactly one per invocation.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput names the hook event and carries the decision.
type SpecificOutput struct {
	HookEventName string       `json:"hookEventName"`
	Decision      WireDecision `json:"decision"`
}

// WireDecision is the host-visible decision: behavior is "allow" or "deny";
// message, when present, is the authoritative text to show the operator.
type WireDecision struct {
	Behavior string `json:"behavior"`
	Message  string `json:"message,omitempty"`
}

// NewOutput wraps a behavior and message in the envelope the host expects.
func NewOutput(behavior, message string) Output {
	return Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName: "PermissionRequest",
			Decision: WireDecision{
				Behavior: behavior,
				Message:  message,
			},
		},
	}
}
