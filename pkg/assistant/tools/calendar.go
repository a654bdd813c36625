package tools

import (
	"context"

	"github.com/vango-go/assistant-core/pkg/assistant/backend"
	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

func getTodayCalendarEventsSpec() types.ToolSpec {
	return types.ToolSpec{
		Name:        ToolGetTodayCalendarEvents,
		Description: "Get today's calendar events.",
		SideEffect:  types.SideEffectReadOnly,
		Params:      nil,
	}
}

func getTodayCalendarEventsHandler(client Backend) Handler {
	return func(ctx context.Context, args map[string]any) (any, *core.Error) {
		payload, err := client.TodayEvents(ctx)
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

func createCalendarEventSpec() types.ToolSpec {
	return types.ToolSpec{
		Name:        ToolCreateCalendarEvent,
		Description: "Create a calendar event. Attendees are bare email addresses only.",
		SideEffect:  types.SideEffectMutating,
		Params: []types.ParamSpec{
			{Name: "summary", Type: types.ParamString, Required: true, Description: "Event title"},
			{Name: "start_time", Type: types.ParamString, Required: true, Format: types.FormatTimestamp, Description: "Start, ISO-8601 with offset"},
			{Name: "end_time", Type: types.ParamString, Required: true, Format: types.FormatTimestamp, Description: "End, ISO-8601 with offset"},
			{Name: "location", Type: types.ParamString, Required: false, Description: "Event location"},
			{Name: "description", Type: types.ParamString, Required: false, Description: "Event description"},
			{Name: "attendees", Type: types.ParamStringArray, Required: false, Format: types.FormatEmailList, Description: "Attendee addresses, no display names"},
		},
	}
}

func createCalendarEventHandler(client Backend) Handler {
	return func(ctx context.Context, args map[string]any) (any, *core.Error) {
		payload, err := client.CreateEvent(ctx, backend.CreateEventParams{
			Summary:     stringArg(args, "summary"),
			StartTime:   stringArg(args, "start_time"),
			EndTime:     stringArg(args, "end_time"),
			Location:    stringArg(args, "location"),
			Description: stringArg(args, "description"),
			Attendees:   stringSliceArg(args, "attendees"),
		})
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

func editCalendarEventSpec() types.ToolSpec {
	return types.ToolSpec{
		Name:        ToolEditCalendarEvent,
		Description: "Edit an existing calendar event's time or summary.",
		SideEffect:  types.SideEffectMutating,
		Params: []types.ParamSpec{
			{Name: "event_id", Type: types.ParamString, Required: true, Description: "Identifier of the event to edit"},
			{Name: "start_time", Type: types.ParamString, Required: true, Format: types.FormatTimestamp, Description: "New start, ISO-8601 with offset"},
			{Name: "end_time", Type: types.ParamString, Required: true, Format: types.FormatTimestamp, Description: "New end, ISO-8601 with offset"},
			{Name: "summary", Type: types.ParamString, Required: true, Description: "Event summary"},
		},
	}
}

func editCalendarEventHandler(client Backend) Handler {
	return func(ctx context.Context, args map[string]any) (any, *core.Error) {
		payload, err := client.UpdateEvent(ctx, backend.UpdateEventParams{
			EventID:   stringArg(args, "event_id"),
			Summary:   stringArg(args, "summary"),
			StartTime: stringArg(args, "start_time"),
			EndTime:   stringArg(args, "end_time"),
		})
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}
