package tools

import (
	"context"
	"encoding/json"

	"github.com/vango-go/assistant-core/pkg/assistant/backend"
	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

// Tool names exposed to the conversation engine. These match the names the
// model is grounded on; changing one breaks live sessions.
const (
	ToolViewAllEmailWithLabels = "viewAllEmailWithLabels"
	ToolReplyToEmail           = "replyToEmail"
	ToolGetTodayCalendarEvents = "getTodayCalendarEvents"
	ToolCreateCalendarEvent    = "createCalendarEvent"
	ToolEditCalendarEvent      = "editCalendarEvent"
)

// Backend is the slice of the email/calendar client the tool handlers use.
type Backend interface {
	ListEmailsByLabel(ctx context.Context, label string) (json.RawMessage, *core.Error)
	ReplyToEmail(ctx context.Context, messageID, to, body string) (json.RawMessage, *core.Error)
	TodayEvents(ctx context.Context) (json.RawMessage, *core.Error)
	CreateEvent(ctx context.Context, params backend.CreateEventParams) (json.RawMessage, *core.Error)
	UpdateEvent(ctx context.Context, params backend.UpdateEventParams) (json.RawMessage, *core.Error)
}

// RegisterAll populates the registry with the full tool catalog bound to
// the given backend. Called once at startup; a failure here aborts the
// process before any session begins.
func RegisterAll(registry *Registry, client Backend) *core.Error {
	entries := []struct {
		spec    types.ToolSpec
		handler Handler
	}{
		{viewAllEmailWithLabelsSpec(), viewAllEmailWithLabelsHandler(client)},
		{replyToEmailSpec(), replyToEmailHandler(client)},
		{getTodayCalendarEventsSpec(), getTodayCalendarEventsHandler(client)},
		{createCalendarEventSpec(), createCalendarEventHandler(client)},
		{editCalendarEventSpec(), editCalendarEventHandler(client)},
	}
	for _, entry := range entries {
		if err := registry.Register(entry.spec, entry.handler); err != nil {
			return err
		}
	}
	return nil
}

func viewAllEmailWithLabelsSpec() types.ToolSpec {
	return types.ToolSpec{
		Name:        ToolViewAllEmailWithLabels,
		Description: "View emails filtered by label. Each email carries an email_id usable with replyToEmail.",
		SideEffect:  types.SideEffectReadOnly,
		Params: []types.ParamSpec{
			{Name: "label", Type: types.ParamString, Required: true, Description: "Label to filter by, e.g. Work"},
		},
	}
}

func viewAllEmailWithLabelsHandler(client Backend) Handler {
	return func(ctx context.Context, args map[string]any) (any, *core.Error) {
		payload, err := client.ListEmailsByLabel(ctx, stringArg(args, "label"))
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

func replyToEmailSpec() types.ToolSpec {
	return types.ToolSpec{
		Name:        ToolReplyToEmail,
		Description: "Reply to an email. email_id comes from a prior viewAllEmailWithLabels response.",
		SideEffect:  types.SideEffectMutating,
		Params: []types.ParamSpec{
			{Name: "email_id", Type: types.ParamString, Required: true, Description: "Identifier of the email being replied to"},
			{Name: "to", Type: types.ParamString, Required: true, Format: types.FormatEmail, Description: "Recipient address"},
			{Name: "body", Type: types.ParamString, Required: true, Description: "Reply text"},
		},
	}
}

func replyToEmailHandler(client Backend) Handler {
	return func(ctx context.Context, args map[string]any) (any, *core.Error) {
		payload, err := client.ReplyToEmail(ctx,
			stringArg(args, "email_id"), stringArg(args, "to"), stringArg(args, "body"))
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

// stringArg reads a validated string argument. Validation has already
// guaranteed presence and type for required params.
func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func stringSliceArg(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
