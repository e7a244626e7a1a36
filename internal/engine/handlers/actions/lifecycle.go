package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// HandleSpawn создает агента. Без полного набора x/y/z агент встает на точку спавна мира.
// Необязательный "dimension" выбирает регион (по умолчанию основной).
func HandleSpawn(ctx *handlers.Context, p handlers.Params) handlers.Result {
	name, err := p.RequiredString("name")
	if err != nil {
		return handlers.FailFromError(err)
	}

	if ctx.FindAgent(name) != nil {
		return handlers.Fail(handlers.CodeAgentExists,
			fmt.Sprintf("An agent named '%s' already exists", name))
	}

	region := ctx.World.Primary()
	if p.Has("dimension") {
		dim, err := p.String("dimension")
		if err != nil {
			return handlers.FailFromError(err)
		}
		if region = ctx.World.Region(dim); region == nil {
			return handlers.Fail(handlers.CodeInvalidParam, fmt.Sprintf("Unknown dimension '%s'", dim))
		}
	}

	pos := ctx.SpawnAnchor()
	if p.HasAll("x", "y", "z") {
		if pos, err = readVec3(p); err != nil {
			return handlers.FailFromError(err)
		}
	}

	agent := domain.NewAgent(name, pos, ctx.World.AgentDefaults)
	region.Add(agent)

	logger.Log.WithFields(logrus.Fields{
		"component": "lifecycle",
		"agent":     name,
		"uuid":      agent.ID.String(),
		"region":    region.Name,
		"source":    ctx.Source,
	}).Info("Agent spawned")

	return handlers.OkWith(map[string]any{
		"name": name,
		"uuid": agent.ID.String(),
		"position": map[string]any{
			"x": pos.X,
			"y": pos.Y,
			"z": pos.Z,
		},
	})
}

// HandleDismiss убирает одного агента или, без параметра "agent", всех сразу
func HandleDismiss(ctx *handlers.Context, p handlers.Params) handlers.Result {
	if p.Has("agent") {
		agent, fail, ok := handlers.ResolveAgent(ctx, p)
		if !ok {
			return fail
		}
		ctx.World.RemoveEntity(agent)
		return handlers.OkValue("dismissed", 1)
	}

	agents := ctx.ListAgents()
	if len(agents) == 0 {
		return handlers.Fail(handlers.CodeAgentNotFound, "No agents found")
	}
	for _, agent := range agents {
		ctx.World.RemoveEntity(agent)
	}
	return handlers.OkValue("dismissed", len(agents))
}

// HandleSetModel меняет модель агента. Пустая папка - модель по умолчанию.
func HandleSetModel(_ *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	folder, err := p.StringOr("modelFolder", "")
	if err != nil {
		return handlers.FailFromError(err)
	}
	agent.Agent.Model = folder

	label := folder
	if label == "" {
		label = domain.DefaultModelLabel
	}
	return handlers.OkValue("model", label)
}
