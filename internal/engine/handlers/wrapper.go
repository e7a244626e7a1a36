package handlers

import (
	"avatar-server/internal/domain"
	"fmt"
)

// AgentHandlerFunc - хендлер, которому уже найден живой агент
type AgentHandlerFunc func(ctx *Context, agent *domain.Entity, params Params) Result

// WithAgent берет на себя поиск агента по параметру "agent".
// Ошибки: MISSING_PARAM, AGENT_NOT_FOUND, AGENT_DEAD.
func WithAgent(handler AgentHandlerFunc) HandlerFunc {
	return func(ctx *Context, params Params) Result {
		agent, fail, ok := ResolveAgent(ctx, params)
		if !ok {
			return fail
		}
		return handler(ctx, agent, params)
	}
}

// ResolveAgent находит агента по параметру "agent"
func ResolveAgent(ctx *Context, params Params) (*domain.Entity, Result, bool) {
	name, err := params.RequiredString("agent")
	if err != nil {
		return nil, FailFromError(err), false
	}
	agent := ctx.FindAgent(name)
	if agent == nil {
		return nil, Fail(CodeAgentNotFound, fmt.Sprintf("No agent named '%s' found", name)), false
	}
	if !agent.IsAlive() {
		return nil, Fail(CodeAgentDead, fmt.Sprintf("Agent '%s' is dead", name)), false
	}
	return agent, Result{}, true
}

// ResolveTarget находит сущность по параметру "target" (UUID)
func ResolveTarget(ctx *Context, params Params) (*domain.Entity, Result, bool) {
	id, err := params.RequiredString("target")
	if err != nil {
		return nil, FailFromError(err), false
	}
	target := ctx.ResolveEntity(id)
	if target == nil {
		return nil, Fail(CodeTargetNotFound, fmt.Sprintf("No entity found with UUID '%s'", id)), false
	}
	return target, Result{}, true
}
