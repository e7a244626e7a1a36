package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
)

func HandleLookAt(ctx *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	target, fail, ok := handlers.ResolveTarget(ctx, p)
	if !ok {
		return fail
	}

	agent.Agent.LookTarget = target
	agent.Agent.LookBlock = nil
	return handlers.OkValue("message", "Looking at "+target.Name)
}

func HandleLookAtBlock(_ *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	if !p.HasAll("x", "y", "z") {
		return handlers.Fail(handlers.CodeMissingParam, msgCoordsRequired)
	}
	pos, err := readBlockPos(p)
	if err != nil {
		return handlers.FailFromError(err)
	}

	agent.Agent.LookBlock = &pos
	agent.Agent.LookTarget = nil
	return handlers.Ok()
}

func HandleLookClear(_ *handlers.Context, agent *domain.Entity, _ handlers.Params) handlers.Result {
	agent.Agent.ClearLook()
	return handlers.Ok()
}
