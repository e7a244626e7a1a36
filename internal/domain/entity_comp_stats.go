package domain

// TakeDamage применяет урон. Возвращает true, если удар прошел.
// Удар не проходит по мертвым и пока действует неуязвимость после прошлого удара.
func (h *HealthComponent) TakeDamage(amount float64) bool {
	if h.IsDead || amount <= 0 {
		return false
	}
	if h.HurtCooldown > 0 {
		return false
	}

	h.HP -= amount
	h.HurtCooldown = HurtCooldownTicks
	if h.HP <= 0 {
		h.HP = 0
		h.IsDead = true
	}
	return true
}

// Heal лечит, не выходя за максимум
func (h *HealthComponent) Heal(amount float64) {
	if h.IsDead || amount <= 0 {
		return
	}
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}

// NeedsHealing - ранен, но жив
func (h *HealthComponent) NeedsHealing() bool {
	return !h.IsDead && h.HP < h.MaxHP
}
