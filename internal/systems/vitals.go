package systems

import "avatar-server/internal/domain"

// TickVitals двигает таймеры здоровья на один тик.
// Агенты восстанавливают 1 HP раз в RegenIntervalTicks.
// Возвращает true, когда мертвое тело пора убрать из мира.
func TickVitals(e *domain.Entity) bool {
	e.TickCount++

	if e.Combat != nil && e.Combat.SwingTicks > 0 {
		e.Combat.SwingTicks--
	}

	h := e.Health
	if h == nil {
		return false
	}
	if h.HurtCooldown > 0 {
		h.HurtCooldown--
	}

	if h.IsDead {
		h.DeathTicks++
		return h.DeathTicks >= domain.DeathLingerTicks
	}

	if e.Agent != nil && e.TickCount%domain.RegenIntervalTicks == 0 && h.NeedsHealing() {
		h.Heal(1)
	}
	return false
}
