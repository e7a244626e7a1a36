package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/systems"
	"fmt"
)

const msgCoordsRequired = "Parameters 'x', 'y', 'z' are required"

func HandleMoveTo(ctx *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	if !p.HasAll("x", "y", "z") {
		return handlers.Fail(handlers.CodeMissingParam, msgCoordsRequired)
	}
	target, err := readVec3(p)
	if err != nil {
		return handlers.FailFromError(err)
	}

	region := ctx.World.RegionOf(agent)
	if !systems.StartNavigation(agent, region.Terrain, target, ctx.World.NavSpeed) {
		return handlers.Fail(handlers.CodePathNotFound,
			fmt.Sprintf("Cannot find path to (%.1f, %.1f, %.1f)", target.X, target.Y, target.Z))
	}

	return handlers.OkValue("message",
		fmt.Sprintf("Moving to (%.1f, %.1f, %.1f)", target.X, target.Y, target.Z))
}

// HandleStop останавливает агента и сбрасывает взгляд
func HandleStop(_ *handlers.Context, agent *domain.Entity, _ handlers.Params) handlers.Result {
	systems.StopNavigation(agent)
	agent.Agent.ClearLook()
	return handlers.Ok()
}

func readVec3(p handlers.Params) (domain.Vec3, error) {
	x, err := p.Coord("x")
	if err != nil {
		return domain.Vec3{}, err
	}
	y, err := p.Coord("y")
	if err != nil {
		return domain.Vec3{}, err
	}
	z, err := p.Coord("z")
	if err != nil {
		return domain.Vec3{}, err
	}
	return domain.Vec3{X: x, Y: y, Z: z}, nil
}

func readBlockPos(p handlers.Params) (domain.BlockPos, error) {
	var pos [3]int
	for i, key := range [...]string{"x", "y", "z"} {
		if _, err := p.Coord(key); err != nil {
			return domain.BlockPos{}, err
		}
		v, err := p.Int(key)
		if err != nil {
			return domain.BlockPos{}, err
		}
		pos[i] = v
	}
	return domain.BlockPos{X: pos[0], Y: pos[1], Z: pos[2]}, nil
}
