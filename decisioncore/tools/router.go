// Package tools provides the tool router the orchestrator hands dispatch
// directives to.
//
// The decision engine only decides *what* to dispatch; handlers registered
// here perform the actual lookup and shape its outcome into the ToolResult
// fed back on the next turn. Timeouts and retries are this layer's
// responsibility, never the engine's.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// Handler executes one tool lookup and returns its structured values.
// Returning a non-nil ambiguity asks the user to disambiguate instead.
type Handler func(ctx context.Context, params map[string]string) (map[string]string, *turn.ToolAmbiguity, error)

// Definition describes a registered tool.
type Definition struct {
	Name        string
	Description string
	Handler     Handler
}

// Router routes tool requests to handlers by name.
type Router struct {
	tools map[string]*Definition
	mu    sync.RWMutex
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		tools: make(map[string]*Definition),
	}
}

// Register registers a tool.
func (r *Router) Register(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler is required for '%s'", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[def.Name] = def
	return nil
}

// Execute runs the tool named in the request and shapes the outcome into the
// ToolResult for the following turn. A handler error becomes a fail-status
// result, not an error: the engine owns the user-facing wording.
func (r *Router) Execute(ctx context.Context, req *directive.ToolRequest) *turn.ToolResult {
	r.mu.RLock()
	def, exists := r.tools[req.Tool]
	r.mu.RUnlock()

	if !exists {
		return &turn.ToolResult{RequestID: req.RequestID, Status: turn.ToolStatusFail}
	}

	values, ambiguity, err := def.Handler(ctx, req.Params)
	if err != nil {
		return &turn.ToolResult{RequestID: req.RequestID, Status: turn.ToolStatusFail}
	}
	if ambiguity != nil {
		return &turn.ToolResult{
			RequestID: req.RequestID,
			Status:    turn.ToolStatusOK,
			Ambiguity: ambiguity,
		}
	}
	return &turn.ToolResult{
		RequestID: req.RequestID,
		Status:    turn.ToolStatusOK,
		Values:    values,
	}
}

// Has checks if a tool is registered.
func (r *Router) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.tools[name]
	return exists
}

// List returns all registered tool names.
func (r *Router) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
