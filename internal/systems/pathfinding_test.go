package systems

import (
	"avatar-server/internal/domain"
	"testing"
)

func TestFindPath_Flat(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	start := domain.BlockPos{X: 0, Y: 64, Z: 0}
	goal := domain.BlockPos{X: 3, Y: 64, Z: 0}

	path, ok := FindPath(terrain, start, goal, 48)
	if !ok {
		t.Fatal("expected path on flat ground")
	}
	if len(path) != 3 {
		t.Errorf("len(path) = %d, want 3", len(path))
	}
	if path[len(path)-1] != goal {
		t.Errorf("path should end at goal, got %v", path[len(path)-1])
	}
}

func TestFindPath_StepsUpOneBlock(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	terrain.SetBlock(domain.BlockPos{X: 1, Y: 64, Z: 0}, domain.BlockStone)

	path, ok := FindPath(terrain, domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockPos{X: 2, Y: 64, Z: 0}, 48)
	if !ok {
		t.Fatal("expected path over a single block")
	}
	if len(path) != 2 || path[0] != (domain.BlockPos{X: 1, Y: 65, Z: 0}) {
		t.Errorf("expected to climb the block, got %v", path)
	}
}

func TestFindPath_AroundWall(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	terrain.Fill(domain.BlockPos{X: 1, Y: 64, Z: -5}, domain.BlockPos{X: 1, Y: 65, Z: 5}, domain.BlockStone)

	path, ok := FindPath(terrain, domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockPos{X: 2, Y: 64, Z: 0}, 48)
	if !ok {
		t.Fatal("expected detour around wall")
	}
	if len(path) <= 2 {
		t.Errorf("detour should be longer than a straight line, got %d", len(path))
	}
	for _, p := range path {
		if p.X == 1 && p.Z >= -5 && p.Z <= 5 {
			t.Errorf("path goes through wall at %v", p)
		}
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)
	// Колодец 3x3, внутри пусто
	terrain.Fill(domain.BlockPos{X: 4, Y: 64, Z: 4}, domain.BlockPos{X: 6, Y: 66, Z: 6}, domain.BlockStone)
	terrain.SetBlock(domain.BlockPos{X: 5, Y: 64, Z: 5}, domain.BlockAir)
	terrain.SetBlock(domain.BlockPos{X: 5, Y: 65, Z: 5}, domain.BlockAir)
	terrain.SetBlock(domain.BlockPos{X: 5, Y: 66, Z: 5}, domain.BlockAir)

	if _, ok := FindPath(terrain, domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockPos{X: 5, Y: 64, Z: 5}, 16); ok {
		t.Error("enclosed goal should be unreachable")
	}
}

func TestFindPath_BeyondRange(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)

	if _, ok := FindPath(terrain, domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockPos{X: 100, Y: 64, Z: 0}, 48); ok {
		t.Error("goal beyond follow range should fail")
	}
}

func TestFindPath_GoalInsideRock(t *testing.T) {
	terrain := domain.NewFlatTerrain(domain.GroundLevel)

	if _, ok := FindPath(terrain, domain.BlockPos{X: 0, Y: 64, Z: 0}, domain.BlockPos{X: 3, Y: 20, Z: 0}, 48); ok {
		t.Error("goal inside rock should fail")
	}
}
