// Package protocol defines the JSON frames exchanged with the audio/
// conversation pipeline. Frames carry a "type" discriminator; decode
// failures produce a DecodeError with a stable code.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badFrame(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_frame", Message: message, Param: param}
}

func unsupported(message, param string) *DecodeError {
	return &DecodeError{Code: "unsupported", Message: message, Param: param}
}

// --- Inbound: pipeline -> controller ---

// TurnStart marks the beginning of a user turn.
type TurnStart struct {
	Type        string `json:"type"`
	TurnID      string `json:"turn_id"`
	TimestampMS int64  `json:"timestamp_ms,omitempty"`
}

// TurnEnd marks the end of a user turn.
type TurnEnd struct {
	Type   string `json:"type"`
	TurnID string `json:"turn_id"`
}

// AgentSpeechStarted signals the pipeline began playing an agent utterance.
type AgentSpeechStarted struct {
	Type   string `json:"type"`
	TurnID string `json:"turn_id,omitempty"`
}

// AgentSpeechFinished signals the agent utterance finished playing.
type AgentSpeechFinished struct {
	Type   string `json:"type"`
	TurnID string `json:"turn_id,omitempty"`
}

// FalseInterruption signals that an in-progress agent utterance was cut off
// by non-speech noise rather than genuine user speech. ExtraInstructions,
// when present, steer the resumed generation.
type FalseInterruption struct {
	Type              string `json:"type"`
	TurnID            string `json:"turn_id,omitempty"`
	ExtraInstructions string `json:"extra_instructions,omitempty"`
}

// ToolInvocationRequested carries a model-issued tool call.
type ToolInvocationRequested struct {
	Type      string         `json:"type"`
	ID        string         `json:"id,omitempty"`
	TurnID    string         `json:"turn_id"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Confirmed bool           `json:"confirmed,omitempty"`
}

// MetricsCollected carries one pipeline performance/usage sample.
type MetricsCollected struct {
	Type        string  `json:"type"`
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	TimestampMS int64   `json:"timestamp_ms,omitempty"`
}

// Shutdown requests session teardown.
type Shutdown struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// DecodePipelineMessage decodes one inbound frame by its type field.
func DecodePipelineMessage(data []byte) (any, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badFrame("invalid json frame", "")
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, badFrame("missing type", "type")
	}

	switch typ {
	case "turn_start":
		var msg TurnStart
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid turn_start", "")
		}
		if strings.TrimSpace(msg.TurnID) == "" {
			return nil, badFrame("turn_start.turn_id is required", "turn_id")
		}
		return msg, nil
	case "turn_end":
		var msg TurnEnd
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid turn_end", "")
		}
		if strings.TrimSpace(msg.TurnID) == "" {
			return nil, badFrame("turn_end.turn_id is required", "turn_id")
		}
		return msg, nil
	case "agent_speech_started":
		var msg AgentSpeechStarted
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid agent_speech_started", "")
		}
		return msg, nil
	case "agent_speech_finished":
		var msg AgentSpeechFinished
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid agent_speech_finished", "")
		}
		return msg, nil
	case "false_interruption":
		var msg FalseInterruption
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid false_interruption", "")
		}
		return msg, nil
	case "tool_invocation":
		var msg ToolInvocationRequested
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid tool_invocation", "")
		}
		if strings.TrimSpace(msg.ToolName) == "" {
			return nil, badFrame("tool_invocation.tool_name is required", "tool_name")
		}
		if strings.TrimSpace(msg.TurnID) == "" {
			return nil, badFrame("tool_invocation.turn_id is required", "turn_id")
		}
		return msg, nil
	case "metrics_collected":
		var msg MetricsCollected
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid metrics_collected", "")
		}
		if strings.TrimSpace(msg.Kind) == "" {
			return nil, badFrame("metrics_collected.kind is required", "kind")
		}
		return msg, nil
	case "shutdown":
		var msg Shutdown
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid shutdown", "")
		}
		return msg, nil
	default:
		return nil, unsupported(fmt.Sprintf("unsupported frame type %q", typ), "type")
	}
}

// --- Outbound: controller -> pipeline ---

// ToolResultAvailable returns a dispatched tool's outcome for the model to
// narrate.
type ToolResultAvailable struct {
	Type         string          `json:"type"`
	TurnID       string          `json:"turn_id"`
	ToolName     string          `json:"tool_name"`
	Status       string          `json:"status"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// GenerateReply asks the conversation engine to produce a new reply.
type GenerateReply struct {
	Type         string `json:"type"`
	Instructions string `json:"instructions,omitempty"`
}

// ResumeSpeech asks the engine to resume the interrupted utterance instead
// of starting over.
type ResumeSpeech struct {
	Type         string `json:"type"`
	Instructions string `json:"instructions,omitempty"`
}
