package actions

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/systems"
	"fmt"
)

func HandleAttack(ctx *handlers.Context, agent *domain.Entity, p handlers.Params) handlers.Result {
	// 1. Поиск цели
	target, fail, ok := handlers.ResolveTarget(ctx, p)
	if !ok {
		return fail
	}

	// 2. Вызов системы боя (порядок проверок зашит там)
	report := systems.ResolveAttack(ctx.World, agent, target)

	// 3. Исход -> ответ
	switch report.Outcome {
	case domain.AttackSuccess:
		return handlers.OkWith(map[string]any{
			"result":   report.Outcome.String(),
			"target":   target.Name,
			"distance": report.Distance,
		})
	case domain.AttackTargetDead:
		return handlers.Fail(handlers.CodeTargetDead, "Target is dead or invalid")
	case domain.AttackOutOfRange:
		return handlers.Fail(handlers.CodeOutOfRange,
			fmt.Sprintf("Target is %.1f blocks away, reach is %.1f", report.Distance, report.Reach))
	case domain.AttackTargetInvulnerable:
		return handlers.Fail(handlers.CodeTargetInvulnerable, "Target is in creative/spectator mode")
	case domain.AttackPeaceful:
		return handlers.Fail(handlers.CodePeacefulMode, "Cannot hurt players in peaceful difficulty")
	case domain.AttackMissed:
		return handlers.Fail(handlers.CodeMissed, "Attack did not land")
	default:
		return handlers.Fail(handlers.CodeInternalError, "Unexpected result: "+report.Outcome.String())
	}
}
