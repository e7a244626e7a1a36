package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
)

// HandleChat рассылает сообщение от имени агента всем в мире
func HandleChat(ctx *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	message, err := p.RequiredString("message")
	if err != nil {
		return handlers.FailFromError(err)
	}

	ctx.World.Broadcast(agent.Name, message)
	return handlers.Ok()
}
