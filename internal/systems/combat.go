package systems

import (
	"avatar-server/internal/domain"
	"avatar-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AttackReport - что произошло при попытке удара
type AttackReport struct {
	Outcome  domain.AttackOutcome
	Distance float64 // Дистанция от атакующего до цели в момент удара
	Reach    float64 // Досягаемость атакующего
	Damage   float64 // Нанесенный урон (0, если не попал)
}

// ResolveAttack проводит одну атаку ближнего боя.
// Проверки идут строго по порядку: жива ли цель, дистанция, режим игрока,
// сложность мира. К живой цели агент поворачивается до проверки дистанции,
// замахивается и бьет только после всех проверок.
func ResolveAttack(w *domain.GameWorld, attacker, target *domain.Entity) AttackReport {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     target.ID,
		"target_name":   target.Name,
	})

	report := AttackReport{
		Distance: attacker.Pos.DistanceTo(target.Pos),
		Reach:    domain.DefaultInteractionRange,
	}
	if attacker.Combat != nil && attacker.Combat.InteractionRange > 0 {
		report.Reach = attacker.Combat.InteractionRange
	}

	// 1. Неживое или уже мертвое
	if !target.IsLiving() || !target.IsAlive() {
		report.Outcome = domain.AttackTargetDead
		combatLogger.Debug("Attack rejected: target is dead or not living.")
		return report
	}

	if target != attacker && attacker.Agent != nil {
		LookAt(attacker, target.EyePos())
	}

	// 2. Дистанция
	if report.Distance > report.Reach {
		report.Outcome = domain.AttackOutOfRange
		combatLogger.WithField("distance", report.Distance).Debug("Attack rejected: out of range.")
		return report
	}

	// 3. Игрок в креативе / наблюдателе
	if target.Player != nil && target.Player.GameMode.Invulnerable() {
		report.Outcome = domain.AttackTargetInvulnerable
		return report
	}

	// 4. Мирная сложность защищает игроков
	if w.Difficulty == domain.DifficultyPeaceful && target.Player != nil {
		report.Outcome = domain.AttackPeaceful
		return report
	}

	// --- Удар ---
	damage := domain.DefaultAttackDamage
	if attacker.Combat != nil {
		attacker.Combat.SwingTicks = domain.SwingDurationTicks
		damage = attacker.Combat.AttackDamage
	}
	region := w.RegionOf(attacker)
	if !HasLineOfSight(region.Terrain, attacker.EyePos(), target.EyePos()) {
		report.Outcome = domain.AttackMissed
		combatLogger.Debug("Attack missed: line of sight blocked.")
		return report
	}

	hpBefore := target.Health.HP
	if !target.Health.TakeDamage(damage) {
		report.Outcome = domain.AttackMissed
		combatLogger.Debug("Attack missed: target is in hurt cooldown.")
		return report
	}

	report.Outcome = domain.AttackSuccess
	report.Damage = hpBefore - target.Health.HP

	combatLogger.WithFields(logrus.Fields{
		"damage":      report.Damage,
		"hp_before":   hpBefore,
		"hp_after":    target.Health.HP,
		"target_died": target.Health.IsDead,
	}).Info("Attack resolved.")

	return report
}
