package tools

import (
	"fmt"
	"regexp"
	"time"

	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

// bareEmailPattern accepts address-only strings. Display-name composites
// such as "Shuang Yin <feliciayin197@gmail.com>" do not match.
var bareEmailPattern = regexp.MustCompile(`^[^\s<>@]+@[^\s<>@]+\.[^\s<>@]+$`)

// ValidateArguments checks args against the spec's ordered parameters and
// fails fast on the first violation.
func ValidateArguments(spec types.ToolSpec, args map[string]any) *core.Error {
	for _, param := range spec.Params {
		value, present := args[param.Name]
		if !present || value == nil {
			if param.Required {
				return core.NewInvalidArgumentError(
					fmt.Sprintf("missing required argument %q for tool %s", param.Name, spec.Name),
					param.Name,
				)
			}
			continue
		}
		if err := validateValue(param, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(param types.ParamSpec, value any) *core.Error {
	switch param.Type {
	case types.ParamString:
		s, ok := value.(string)
		if !ok {
			return typeMismatch(param, "string", value)
		}
		return validateFormat(param, s)
	case types.ParamNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return nil
		default:
			return typeMismatch(param, "number", value)
		}
	case types.ParamStringArray:
		items, err := stringSlice(param, value)
		if err != nil {
			return err
		}
		for _, item := range items {
			if ferr := validateFormat(param, item); ferr != nil {
				return ferr
			}
		}
		return nil
	default:
		return core.NewInvalidArgumentError(
			fmt.Sprintf("argument %q has unsupported schema type %q", param.Name, param.Type),
			param.Name,
		)
	}
}

func stringSlice(param types.ParamSpec, value any) ([]string, *core.Error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, typeMismatch(param, "list of strings", value)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeMismatch(param, "list of strings", value)
	}
}

func validateFormat(param types.ParamSpec, value string) *core.Error {
	switch param.Format {
	case types.FormatEmail, types.FormatEmailList:
		if !bareEmailPattern.MatchString(value) {
			return core.NewArgumentFormatError(
				fmt.Sprintf("%q is not a bare email address; pass the address only, like \"feliciayin197@gmail.com\", not \"Name <address>\"", value),
				param.Name,
			)
		}
	case types.FormatTimestamp:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return core.NewArgumentFormatError(
				fmt.Sprintf("%q is not an ISO-8601 timestamp with offset, like \"2025-09-22T09:00:00+08:00\"", value),
				param.Name,
			)
		}
	}
	return nil
}

func typeMismatch(param types.ParamSpec, want string, got any) *core.Error {
	return core.NewInvalidArgumentError(
		fmt.Sprintf("argument %q must be a %s, got %T", param.Name, want, got),
		param.Name,
	)
}
