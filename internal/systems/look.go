package systems

import (
	"avatar-server/internal/domain"
	"math"
)

// LookAt поворачивает голову сущности к точке
func LookAt(e *domain.Entity, point domain.Vec3) {
	eye := e.EyePos()
	dx := point.X - eye.X
	dy := point.Y - eye.Y
	dz := point.Z - eye.Z

	if dx != 0 || dz != 0 {
		e.Yaw = yawTowards(dx, dz)
	}
	horizontal := math.Sqrt(dx*dx + dz*dz)
	e.Pitch = wrapDegrees(-math.Atan2(dy, horizontal) * 180 / math.Pi)
}

// UpdateLook держит взгляд агента на цели.
// Мертвая, удаленная или ушедшая в другой регион цель сбрасывается.
func UpdateLook(e *domain.Entity) {
	if e.Agent == nil {
		return
	}
	if target := e.Agent.LookTarget; target != nil {
		if target.IsAlive() && target.Region == e.Region {
			LookAt(e, target.EyePos())
		} else {
			e.Agent.LookTarget = nil
		}
		return
	}
	if block := e.Agent.LookBlock; block != nil {
		LookAt(e, block.Middle())
	}
}

// yawTowards: 0 - на юг (+Z), 90 - на запад (-X)
func yawTowards(dx, dz float64) float64 {
	return wrapDegrees(math.Atan2(-dx, dz) * 180 / math.Pi)
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg >= 180 {
		deg -= 360
	}
	if deg < -180 {
		deg += 360
	}
	return deg
}
