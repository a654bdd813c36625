package tools

import (
	"context"
	"log/slog"

	"github.com/vango-go/assistant-core/pkg/core"
	"github.com/vango-go/assistant-core/pkg/core/types"
)

// Dispatcher validates tool invocations against the registry, enforces the
// one-active-tool and confirm-before-mutate policies, and normalizes every
// outcome into a ToolResult. Contract and backend failures alike come back
// as data; Dispatch never lets an error escape into the session controller.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch runs the full contract for one invocation: the new invocation
// supersedes any unresolved active tool (the prior one is abandoned, not
// queued), then Execute produces the result and the active slot is cleared
// if the invocation is still current.
func (d *Dispatcher) Dispatch(ctx context.Context, inv types.ToolInvocation, state *types.SessionState) types.ToolResult {
	if state != nil {
		state.Supersede(inv)
	}
	result := d.Execute(ctx, inv)
	if state != nil {
		state.ResolveTool(inv.ID)
	}
	return result
}

// Execute validates and runs a single invocation without touching session
// state. The controller calls this from a worker goroutine and applies the
// result on its own event loop, so SessionState mutation stays serialized.
func (d *Dispatcher) Execute(ctx context.Context, inv types.ToolInvocation) types.ToolResult {
	spec, err := d.registry.Resolve(inv.Name)
	if err != nil {
		d.logger.Warn("tool invocation rejected", "tool", inv.Name, "reason", err.Type)
		return types.ErrorResult(err.Error())
	}

	if err := ValidateArguments(spec, inv.Arguments); err != nil {
		d.logger.Warn("tool arguments rejected",
			"tool", inv.Name, "param", err.Param, "reason", err.Type)
		return types.ErrorResult(err.Error())
	}

	// Mutating actions need an explicit prior confirmation from the
	// conversation layer. Without it the handler is not invoked and no
	// backend call is made.
	if spec.Mutating() && !inv.Confirmed {
		d.logger.Info("confirmation required", "tool", inv.Name, "turn", inv.TurnID)
		return types.ConfirmationRequiredResult(inv.Name)
	}

	handler, ok := d.registry.Handler(inv.Name)
	if !ok {
		return types.ErrorResult(core.NewUnknownToolError(inv.Name).Error())
	}

	payload, herr := handler(ctx, inv.Arguments)
	if herr != nil {
		d.logger.Warn("tool execution failed",
			"tool", inv.Name, "turn", inv.TurnID, "code", herr.Code, "err", herr.Message)
		return types.ErrorResult(herr.Error())
	}
	return types.OKResult(payload)
}
