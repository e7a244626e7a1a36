package systems

import (
	"avatar-server/internal/domain"
	"avatar-server/pkg/logger"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// FallPerTick - скорость падения без учета ускорения
	FallPerTick = 0.5

	losStep    = 0.1
	groundEps  = 1e-6
	voidFloorY = domain.MinBuildY - 64
)

// HasLineOfSight проверяет, что отрезок между точками не проходит через твердые блоки.
// Блоки, в которых лежат сами концы, не учитываются.
func HasLineOfSight(t *domain.Terrain, from, to domain.Vec3) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
	})

	startBlock := from.Block()
	endBlock := to.Block()

	dist := from.DistanceTo(to)
	if dist == 0 {
		return true
	}
	steps := int(math.Ceil(dist / losStep))
	for i := 1; i < steps; i++ {
		k := float64(i) / float64(steps)
		p := domain.Vec3{
			X: from.X + (to.X-from.X)*k,
			Y: from.Y + (to.Y-from.Y)*k,
			Z: from.Z + (to.Z-from.Z)*k,
		}
		b := p.Block()
		if b == startBlock || b == endBlock {
			continue
		}
		if t.BlockAt(b).IsSolid() {
			losLogger.WithField("blocking_point", b).Debug("Line is blocked.")
			return false
		}
	}
	return true
}

// ApplyPhysics обновляет флаги среды и роняет сущность, если под ней пусто.
// Агент на маршруте не падает: высоту ему задает путь.
func ApplyPhysics(e *domain.Entity, t *domain.Terrain) {
	if e.Physics == nil {
		return
	}
	feet := e.Pos.Block()

	// Застряли в блоке - выталкиваем наверх
	if t.BlockAt(feet).IsSolid() {
		e.Pos.Y = float64(feet.Y + 1)
		feet = e.Pos.Block()
	}

	e.Physics.InWater = t.BlockAt(feet).IsLiquid()

	if IsNavigating(e) {
		e.Physics.OnGround = t.BlockAt(feet.Below()).IsSolid()
		return
	}

	frac := e.Pos.Y - float64(feet.Y)
	if frac < groundEps && t.BlockAt(feet.Below()).IsSolid() {
		e.Pos.Y = float64(feet.Y)
		e.Physics.OnGround = true
		return
	}

	e.Physics.OnGround = false
	fall := FallPerTick
	if e.Physics.InWater {
		fall = FallPerTick / 4
	}
	newY := e.Pos.Y - fall

	// Ищем верх твердого блока в пролете (newY, Y]
	for top := int(math.Floor(e.Pos.Y)); float64(top) >= newY; top-- {
		if t.BlockAt(domain.BlockPos{X: feet.X, Y: top - 1, Z: feet.Z}).IsSolid() {
			e.Pos.Y = float64(top)
			e.Physics.OnGround = true
			return
		}
	}

	if newY < voidFloorY {
		newY = voidFloorY
	}
	e.Pos.Y = newY
}
