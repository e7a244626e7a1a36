package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/systems"
)

// HandlePerceptionSelf - полный снимок состояния агента
func HandlePerceptionSelf(_ *handlers.Context, agent *domain.Entity, _ handlers.Params) handlers.Result {
	pos := agent.Pos.Round1()

	var lookTarget any
	if t := agent.Agent.LookTarget; t != nil && !t.Removed {
		lookTarget = t.Name
	}

	onGround, inWater := false, false
	if agent.Physics != nil {
		onGround = agent.Physics.OnGround
		inWater = agent.Physics.InWater
	}

	return handlers.OkWith(map[string]any{
		"name": agent.Name,
		"position": map[string]any{
			"x": pos.X,
			"y": pos.Y,
			"z": pos.Z,
		},
		"health":       agent.CurrentHealth(),
		"maxHealth":    agent.MaxHealth(),
		"yaw":          agent.Yaw,
		"pitch":        agent.Pitch,
		"isNavigating": systems.IsNavigating(agent),
		"onGround":     onGround,
		"inWater":      inWater,
		"lookTarget":   lookTarget,
		"uuid":         agent.ID.String(),
	})
}

// HandlePerceptionAgents - список всех агентов (всегда массив, даже пустой)
func HandlePerceptionAgents(ctx *handlers.Context, _ handlers.Params) handlers.Result {
	agents := ctx.ListAgents()
	list := make([]map[string]any, 0, len(agents))
	for _, a := range agents {
		list = append(list, map[string]any{
			"name":   a.Name,
			"uuid":   a.ID.String(),
			"health": a.CurrentHealth(),
			"alive":  a.IsAlive(),
		})
	}
	return handlers.OkValue("agents", list)
}
