package types

// SideEffect classifies whether a tool only reads external state or
// changes it. Mutating tools are gated by the confirmation policy.
type SideEffect string

const (
	SideEffectReadOnly SideEffect = "read_only"
	SideEffectMutating SideEffect = "mutating"
)

// ParamType is the expected JSON shape of a tool argument.
type ParamType string

const (
	ParamString      ParamType = "string"
	ParamNumber      ParamType = "number"
	ParamStringArray ParamType = "string_array"
)

// ParamFormat names an additional constraint predicate on an argument
// beyond its type.
type ParamFormat string

const (
	// FormatNone applies no constraint beyond the type.
	FormatNone ParamFormat = ""
	// FormatEmail requires a bare email address. Display-name composites
	// like "Shuang Yin <feliciayin197@gmail.com>" are rejected.
	FormatEmail ParamFormat = "email"
	// FormatEmailList applies FormatEmail to every element of a string array.
	FormatEmailList ParamFormat = "email_list"
	// FormatTimestamp requires an ISO-8601 timestamp with an explicit offset.
	FormatTimestamp ParamFormat = "timestamp"
)

// ParamSpec describes one tool argument. Params are kept as an ordered
// slice; validation walks them in declaration order and fails fast.
type ParamSpec struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Required    bool        `json:"required"`
	Format      ParamFormat `json:"format,omitempty"`
	Description string      `json:"description,omitempty"`
}

// ToolSpec is the static catalog entry for one callable action. Specs are
// immutable after registration.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	SideEffect  SideEffect  `json:"side_effect"`
	Params      []ParamSpec `json:"params"`
}

// Mutating reports whether invoking the tool changes external state.
func (s ToolSpec) Mutating() bool {
	return s.SideEffect == SideEffectMutating
}

// Param returns the spec for a named parameter.
func (s ToolSpec) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// ToolInvocation is one model-issued request to call a tool. It is created
// by the conversation engine, consumed exactly once by the dispatcher, and
// never persisted beyond the turn.
type ToolInvocation struct {
	ID        string         `json:"id"`
	TurnID    string         `json:"turn_id"`
	Name      string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	// Confirmed is the explicit prior confirmation signal from the
	// conversation layer, required before a mutating tool executes.
	Confirmed bool `json:"confirmed,omitempty"`
}

// ResultStatus is the outcome class of a dispatched invocation.
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
	// StatusConfirmationRequired is not an error: the mutating action was
	// withheld pending user confirmation.
	StatusConfirmationRequired ResultStatus = "confirmation_required"
)

// ToolResult is the uniform response envelope returned to the conversation
// context for the model to narrate. Immutable once produced.
type ToolResult struct {
	Status       ResultStatus `json:"status"`
	Payload      any          `json:"payload,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// OKResult wraps a success payload.
func OKResult(payload any) ToolResult {
	return ToolResult{Status: StatusOK, Payload: payload}
}

// ErrorResult wraps a failure message.
func ErrorResult(message string) ToolResult {
	return ToolResult{Status: StatusError, ErrorMessage: message}
}

// ConfirmationRequiredResult signals that a mutating tool needs the user's
// go-ahead before it runs.
func ConfirmationRequiredResult(toolName string) ToolResult {
	return ToolResult{
		Status:       StatusConfirmationRequired,
		ErrorMessage: "tool " + toolName + " changes external state; ask the user to confirm, then retry with confirmed set",
	}
}
