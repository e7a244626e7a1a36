package systems

import (
	"avatar-server/internal/domain"
	"testing"
)

func newCombatWorld() (*domain.GameWorld, *domain.Entity) {
	world := domain.NewGameWorld()
	agent := domain.NewAgent("Hero", domain.Vec3{X: 0.5, Y: 64, Z: 0.5}, domain.DefaultAttributes())
	world.AddEntity("", agent)
	return world, agent
}

func TestResolveAttack_Success(t *testing.T) {
	world, agent := newCombatWorld()
	mob := domain.NewMob("Zombie", domain.Vec3{X: 2.5, Y: 64, Z: 0.5}, 20)
	world.AddEntity("", mob)

	report := ResolveAttack(world, agent, mob)

	if report.Outcome != domain.AttackSuccess {
		t.Fatalf("Outcome = %s, want SUCCESS", report.Outcome)
	}
	if mob.Health.HP != 19 {
		t.Errorf("Expected target HP to be 19, got %v", mob.Health.HP)
	}
	if report.Distance != 2 {
		t.Errorf("Distance = %v, want 2", report.Distance)
	}
	if agent.Combat.SwingTicks == 0 {
		t.Error("agent should be swinging")
	}

	// Повторный удар в тот же тик упирается в неуязвимость
	if again := ResolveAttack(world, agent, mob); again.Outcome != domain.AttackMissed {
		t.Errorf("second hit Outcome = %s, want MISSED", again.Outcome)
	}
}

func TestResolveAttack_Checks(t *testing.T) {
	tests := []struct {
		name       string
		target     func() *domain.Entity
		difficulty domain.Difficulty
		want       domain.AttackOutcome
	}{
		{
			name:   "item is not living",
			target: func() *domain.Entity { return domain.NewItem("Stick", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}) },
			want:   domain.AttackTargetDead,
		},
		{
			name: "dead mob",
			target: func() *domain.Entity {
				m := domain.NewMob("Zombie", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}, 20)
				m.Health.IsDead = true
				m.Health.HP = 0
				return m
			},
			want: domain.AttackTargetDead,
		},
		{
			name: "dead beats out of range",
			target: func() *domain.Entity {
				m := domain.NewMob("Zombie", domain.Vec3{X: 30.5, Y: 64, Z: 0.5}, 20)
				m.Health.IsDead = true
				return m
			},
			want: domain.AttackTargetDead,
		},
		{
			name:   "out of range",
			target: func() *domain.Entity { return domain.NewMob("Zombie", domain.Vec3{X: 5.5, Y: 64, Z: 0.5}, 20) },
			want:   domain.AttackOutOfRange,
		},
		{
			name: "creative player far away",
			target: func() *domain.Entity {
				return domain.NewPlayer("Steve", domain.Vec3{X: 9.5, Y: 64, Z: 0.5}, domain.GameModeCreative)
			},
			want: domain.AttackOutOfRange,
		},
		{
			name: "creative player",
			target: func() *domain.Entity {
				return domain.NewPlayer("Steve", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}, domain.GameModeCreative)
			},
			want: domain.AttackTargetInvulnerable,
		},
		{
			name: "spectator in peaceful",
			target: func() *domain.Entity {
				return domain.NewPlayer("Steve", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}, domain.GameModeSpectator)
			},
			difficulty: domain.DifficultyPeaceful,
			want:       domain.AttackTargetInvulnerable,
		},
		{
			name: "survival player in peaceful",
			target: func() *domain.Entity {
				return domain.NewPlayer("Steve", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}, domain.GameModeSurvival)
			},
			difficulty: domain.DifficultyPeaceful,
			want:       domain.AttackPeaceful,
		},
		{
			name:       "mob in peaceful",
			target:     func() *domain.Entity { return domain.NewMob("Pig", domain.Vec3{X: 1.5, Y: 64, Z: 0.5}, 10) },
			difficulty: domain.DifficultyPeaceful,
			want:       domain.AttackSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, agent := newCombatWorld()
			world.Difficulty = tt.difficulty
			target := tt.target()
			world.AddEntity("", target)

			if got := ResolveAttack(world, agent, target).Outcome; got != tt.want {
				t.Errorf("Outcome = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveAttack_BlockedByWall(t *testing.T) {
	world, agent := newCombatWorld()
	world.Primary().Terrain.Fill(domain.BlockPos{X: 1, Y: 64, Z: -1}, domain.BlockPos{X: 1, Y: 67, Z: 1}, domain.BlockStone)
	mob := domain.NewMob("Zombie", domain.Vec3{X: 2.5, Y: 64, Z: 0.5}, 20)
	world.AddEntity("", mob)

	if got := ResolveAttack(world, agent, mob).Outcome; got != domain.AttackMissed {
		t.Errorf("Outcome = %s, want MISSED", got)
	}
	if mob.Health.HP != 20 {
		t.Error("blocked attack should not deal damage")
	}
}

// Живую цель агент разворачивает к себе даже при отказе по дистанции
func TestResolveAttack_OutOfRangeStillTurns(t *testing.T) {
	world, agent := newCombatWorld()
	agent.Yaw = 0
	mob := domain.NewMob("Zombie", domain.Vec3{X: 5.5, Y: 64, Z: 0.5}, 20)
	world.AddEntity("", mob)

	if got := ResolveAttack(world, agent, mob).Outcome; got != domain.AttackOutOfRange {
		t.Fatalf("Outcome = %s, want OUT_OF_RANGE", got)
	}
	if want := yawTowards(5, 0); agent.Yaw != want {
		t.Errorf("Yaw = %v, want %v", agent.Yaw, want)
	}
	if agent.Combat.SwingTicks != 0 {
		t.Error("rejected attack should not swing")
	}
}

// Мертвая цель не поворачивает агента
func TestResolveAttack_DeadTargetDoesNotTurn(t *testing.T) {
	world, agent := newCombatWorld()
	agent.Yaw = 0
	mob := domain.NewMob("Zombie", domain.Vec3{X: 0.5, Y: 64, Z: 2.5}, 20)
	mob.Health.IsDead = true
	world.AddEntity("", mob)

	ResolveAttack(world, agent, mob)
	if agent.Yaw != 0 {
		t.Errorf("Yaw = %v, want 0", agent.Yaw)
	}
}
