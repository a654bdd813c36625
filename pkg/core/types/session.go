package types

// Phase is the session controller's conversation state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseListening   Phase = "listening"
	PhaseToolPending Phase = "tool_pending"
	PhaseSpeaking    Phase = "speaking"
	PhaseClosed      Phase = "closed"
)

// SessionState is owned exclusively by the session controller and mutated
// only on its event loop. At most one tool invocation is active at a time;
// a newer invocation supersedes the previous one.
type SessionState struct {
	Phase      Phase
	ActiveTool *ToolInvocation
	Samples    []MetricSample
}

// Closed reports whether the session has been torn down. No further state
// mutation is permitted once closed.
func (s *SessionState) Closed() bool {
	return s.Phase == PhaseClosed
}

// Supersede installs inv as the active tool, abandoning any prior one.
// The abandoned invocation is not queued; its eventual result is discarded
// by the controller when the IDs no longer match.
func (s *SessionState) Supersede(inv ToolInvocation) {
	s.ActiveTool = &inv
}

// ResolveTool clears the active tool if id still identifies it and reports
// whether the result should be applied.
func (s *SessionState) ResolveTool(id string) bool {
	if s.ActiveTool == nil || s.ActiveTool.ID != id {
		return false
	}
	s.ActiveTool = nil
	return true
}
