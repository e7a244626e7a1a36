package systems

import (
	"avatar-server/internal/domain"
	"testing"
)

func TestHasLineOfSight(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	terrain.Fill(domain.BlockPos{X: 2, Y: 64, Z: 0}, domain.BlockPos{X: 2, Y: 66, Z: 0}, domain.BlockStone)

	tests := []struct {
		name     string
		from, to domain.Vec3
		want     bool
	}{
		{"Clear", domain.Vec3{X: 0.5, Y: 65.6, Z: 5.5}, domain.Vec3{X: 4.5, Y: 65.6, Z: 5.5}, true},
		{"Through pillar", domain.Vec3{X: 0.5, Y: 65.6, Z: 0.5}, domain.Vec3{X: 4.5, Y: 65.6, Z: 0.5}, false},
		{"Same point", domain.Vec3{X: 0.5, Y: 65.6, Z: 0.5}, domain.Vec3{X: 0.5, Y: 65.6, Z: 0.5}, true},
		{"Over pillar", domain.Vec3{X: 0.5, Y: 68.5, Z: 0.5}, domain.Vec3{X: 4.5, Y: 68.5, Z: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(terrain, tt.from, tt.to); got != tt.want {
				t.Errorf("HasLineOfSight(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApplyPhysics_FallsToGround(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	mob := domain.NewMob("Chicken", domain.Vec3{X: 0.5, Y: 70, Z: 0.5}, 4)

	for i := 0; i < 30; i++ {
		ApplyPhysics(mob, terrain)
	}

	if mob.Pos.Y != 64 {
		t.Errorf("Y = %v, want 64", mob.Pos.Y)
	}
	if !mob.Physics.OnGround {
		t.Error("mob should be on ground")
	}
}

func TestApplyPhysics_Water(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	terrain.SetBlock(domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockWater)
	mob := domain.NewMob("Fish", domain.Vec3{X: 0.5, Y: 64, Z: 0.5}, 3)

	ApplyPhysics(mob, terrain)

	if !mob.Physics.InWater {
		t.Error("mob should be in water")
	}
	if !mob.Physics.OnGround {
		t.Error("mob standing on grass under water should be on ground")
	}
}

func TestApplyPhysics_PushedOutOfRock(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	mob := domain.NewMob("Mole", domain.Vec3{X: 0.5, Y: 63, Z: 0.5}, 3)

	ApplyPhysics(mob, terrain)

	if mob.Pos.Y != 64 {
		t.Errorf("Y = %v, want 64", mob.Pos.Y)
	}
}

func TestTickVitals(t *testing.T) {
	agent := domain.NewAgent("Healer", domain.Vec3{}, domain.DefaultAttributes())
	agent.Health.HP = 10

	for i := 0; i < domain.RegenIntervalTicks; i++ {
		TickVitals(agent)
	}
	if agent.Health.HP != 11 {
		t.Errorf("HP = %v, want 11 after one regen interval", agent.Health.HP)
	}

	mob := domain.NewMob("Zombie", domain.Vec3{}, 20)
	mob.Health.TakeDamage(100)
	removed := false
	for i := 0; i < domain.DeathLingerTicks; i++ {
		removed = TickVitals(mob)
	}
	if !removed {
		t.Error("dead body should be due for removal")
	}
}
