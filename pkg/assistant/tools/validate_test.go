package tools

import (
	"testing"

	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

func TestValidateArguments_MissingRequired(t *testing.T) {
	spec := types.ToolSpec{
		Name: "viewAllEmailWithLabels",
		Params: []types.ParamSpec{
			{Name: "label", Type: types.ParamString, Required: true},
		},
	}
	err := ValidateArguments(spec, map[string]any{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Type != core.ErrInvalidArgument || err.Param != "label" {
		t.Fatalf("err=%+v, want invalid_argument_error on label", err)
	}
}

func TestValidateArguments_TypeMismatch(t *testing.T) {
	spec := types.ToolSpec{
		Name:   "viewAllEmailWithLabels",
		Params: []types.ParamSpec{{Name: "label", Type: types.ParamString, Required: true}},
	}
	err := ValidateArguments(spec, map[string]any{"label": 7.0})
	if err == nil || err.Type != core.ErrInvalidArgument {
		t.Fatalf("err=%+v", err)
	}
}

func TestValidateArguments_OptionalAbsentOK(t *testing.T) {
	spec := types.ToolSpec{
		Name: "createCalendarEvent",
		Params: []types.ParamSpec{
			{Name: "summary", Type: types.ParamString, Required: true},
			{Name: "location", Type: types.ParamString, Required: false},
		},
	}
	if err := ValidateArguments(spec, map[string]any{"summary": "Standup"}); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateArguments_AttendeeComposite(t *testing.T) {
	spec := types.ToolSpec{
		Name: "createCalendarEvent",
		Params: []types.ParamSpec{
			{Name: "attendees", Type: types.ParamStringArray, Format: types.FormatEmailList},
		},
	}

	err := ValidateArguments(spec, map[string]any{
		"attendees": []any{"Shuang Yin <feliciayin197@gmail.com>"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Type != core.ErrArgumentFormat || err.Param != "attendees" {
		t.Fatalf("err=%+v, want argument_format_error on attendees", err)
	}

	if err := ValidateArguments(spec, map[string]any{
		"attendees": []any{"feliciayin197@gmail.com"},
	}); err != nil {
		t.Fatalf("bare address rejected: %v", err)
	}
}

func TestValidateArguments_EmailFormatOnString(t *testing.T) {
	spec := types.ToolSpec{
		Name:   "replyToEmail",
		Params: []types.ParamSpec{{Name: "to", Type: types.ParamString, Required: true, Format: types.FormatEmail}},
	}
	if err := ValidateArguments(spec, map[string]any{"to": "Kwan <leykwan132@gmail.com>"}); err == nil {
		t.Fatal("expected error")
	}
	if err := ValidateArguments(spec, map[string]any{"to": "leykwan132@gmail.com"}); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateArguments_TimestampFormat(t *testing.T) {
	spec := types.ToolSpec{
		Name:   "editCalendarEvent",
		Params: []types.ParamSpec{{Name: "start_time", Type: types.ParamString, Required: true, Format: types.FormatTimestamp}},
	}
	if err := ValidateArguments(spec, map[string]any{"start_time": "tomorrow at nine"}); err == nil {
		t.Fatal("expected error")
	}
	if err := ValidateArguments(spec, map[string]any{"start_time": "2025-09-22T09:00:00+08:00"}); err != nil {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateArguments_FailsFastInDeclarationOrder(t *testing.T) {
	spec := types.ToolSpec{
		Name: "replyToEmail",
		Params: []types.ParamSpec{
			{Name: "email_id", Type: types.ParamString, Required: true},
			{Name: "to", Type: types.ParamString, Required: true, Format: types.FormatEmail},
		},
	}
	// Both arguments are bad; the first declared param wins.
	err := ValidateArguments(spec, map[string]any{"to": "not-an-email"})
	if err == nil || err.Param != "email_id" {
		t.Fatalf("err=%+v, want failure on email_id", err)
	}
}
