// Package tools holds the static tool catalog and the dispatcher that
// validates and executes model-issued tool invocations.
package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

// Handler executes one validated tool invocation. Backend failures come
// back as a *core.Error; handlers never panic across this boundary.
type Handler func(ctx context.Context, args map[string]any) (any, *core.Error)

type registeredTool struct {
	spec    types.ToolSpec
	handler Handler
}

// Registry is the static catalog of callable actions. It is populated once
// at startup and treated as read-only for the session's duration.
type Registry struct {
	byName map[string]registeredTool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]registeredTool)}
}

// Register adds a tool spec with its bound handler. Names are unique
// across the registry.
func (r *Registry) Register(spec types.ToolSpec, handler Handler) *core.Error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return core.NewInvalidArgumentError("tool name must be non-empty", "name")
	}
	if handler == nil {
		return core.NewInvalidArgumentError("tool handler must be non-nil", "handler")
	}
	if _, exists := r.byName[name]; exists {
		return core.NewDuplicateToolError(name)
	}
	r.byName[name] = registeredTool{spec: spec, handler: handler}
	return nil
}

// Resolve returns the exact spec registered under name.
func (r *Registry) Resolve(name string) (types.ToolSpec, *core.Error) {
	if r == nil {
		return types.ToolSpec{}, core.NewUnknownToolError(name)
	}
	reg, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return types.ToolSpec{}, core.NewUnknownToolError(name)
	}
	return reg.spec, nil
}

// Handler returns the bound handler for name.
func (r *Registry) Handler(name string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	reg, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	return reg.handler, true
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
