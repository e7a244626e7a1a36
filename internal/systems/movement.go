package systems

import (
	"avatar-server/internal/domain"
	"avatar-server/pkg/logger"
	"math"

	"github.com/sirupsen/logrus"
)

// WalkFactor переводит атрибут скорости в блоки за тик
const WalkFactor = 0.7

// StartNavigation строит маршрут до точки и запускает движение.
// Возвращает false, если путь не найден (старый маршрут при этом сброшен).
func StartNavigation(e *domain.Entity, t *domain.Terrain, target domain.Vec3, speed float64) bool {
	if e.Agent == nil {
		return false
	}
	nav := &e.Agent.Nav
	nav.Reset()

	maxRange := domain.DefaultFollowRange
	if e.Combat != nil && e.Combat.FollowRange > 0 {
		maxRange = e.Combat.FollowRange
	}

	path, ok := FindPath(t, e.Pos.Block(), target.Block(), maxRange)
	if !ok {
		logger.Log.WithFields(logrus.Fields{
			"component": "movement_system",
			"entity":    e.Name,
			"target":    target.String(),
		}).Debug("No path found")
		return false
	}

	nav.Path = path
	nav.Index = 0
	nav.Target = target
	nav.Speed = speed
	return true
}

// StopNavigation прерывает текущий маршрут
func StopNavigation(e *domain.Entity) {
	if e.Agent != nil {
		e.Agent.Nav.Reset()
	}
}

// IsNavigating - идет ли агент по маршруту
func IsNavigating(e *domain.Entity) bool {
	return e.Agent != nil && e.Agent.Nav.InProgress()
}

// StepNavigation продвигает агента по маршруту на один тик
func StepNavigation(e *domain.Entity) {
	if !IsNavigating(e) {
		return
	}
	nav := &e.Agent.Nav

	budget := e.Agent.MoveSpeed * nav.Speed * WalkFactor
	for budget > 0 && nav.InProgress() {
		next := nav.Path[nav.Index].Center()
		dx := next.X - e.Pos.X
		dy := next.Y - e.Pos.Y
		dz := next.Z - e.Pos.Z
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

		if e.Agent.LookTarget == nil && e.Agent.LookBlock == nil && (dx != 0 || dz != 0) {
			e.Yaw = yawTowards(dx, dz)
		}

		if dist <= budget {
			e.Pos = next
			nav.Index++
			budget -= dist
			continue
		}

		k := budget / dist
		e.Pos = e.Pos.Add(dx*k, dy*k, dz*k)
		budget = 0
	}

	if !nav.InProgress() {
		nav.Reset()
	}
}
