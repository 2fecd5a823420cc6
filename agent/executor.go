package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

// executeCalls runs the requested calls in order and returns one tool
// content holding a response per call. Calls run sequentially because a
// binding call may change which tools later calls see.
func (a *ModelAgent) executeCalls(ctx context.Context, calls []core.FunctionCall) core.Content {
	out := core.Content{Role: core.RoleTool}

	for _, fc := range calls {
		if a.observer != nil {
			a.observer(fc)
		}

		toolCtx := core.NewToolContext(ctx, a.sessionID, a.name, fc.ID, a.logger)

		start := time.Now()
		var (
			result any
			err    error
		)
		func() { // panic safety
			defer func() {
				if r := recover(); r != nil {
					err = panicError(r)
					a.logger.Error("agent.function.panic", "agent", a.name, "function", fc.Name, "recover", r)
				}
			}()
			result, err = executeTool(a.tools, toolCtx, fc.Name, fc.Arguments)
		}()

		logging.LogToolCall(a.logger, fc.Name, time.Since(start), err)

		resp := core.FunctionResponse{ID: fc.ID, Name: fc.Name, Response: result}
		if err != nil {
			resp.Error = err.Error()
		}
		out.Parts = append(out.Parts, core.FunctionResponsePart{FunctionResponse: resp})
	}

	return out
}

// panicError converts a recovered panic value to an error.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }

// executeTool centralizes tool lookup & execution.
func executeTool(tools *tool.Toolset, toolCtx *core.ToolContext, toolName, args string) (any, error) {
	impl, ok := tools.Get(toolName)
	if !ok {
		return nil, fmt.Errorf("tool %s not found", toolName)
	}

	argMap, err := model.ParseArguments(args)
	if err != nil {
		return nil, err
	}

	return impl.Call(toolCtx, argMap)
}
