package engine

import (
	"avatar-server/internal/config"
	"avatar-server/internal/domain"
	"avatar-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// BuildWorld создает регионы, постройки и стартовые сущности из конфига
func BuildWorld(wc config.WorldConfig, ac config.AgentConfig) (*domain.GameWorld, error) {
	// 1. Регионы и ландшафт
	regions := make([]*domain.Region, 0, len(wc.Regions))
	for _, rc := range wc.Regions {
		terrain := domain.NewFlatTerrain(rc.Ground)
		for _, f := range rc.Features {
			block, ok := domain.ParseBlock(f.Block)
			if !ok {
				return nil, fmt.Errorf("region %s: unknown block %q", rc.Name, f.Block)
			}
			terrain.Fill(f.From.Block(), f.To.Block(), block)
		}
		regions = append(regions, domain.NewRegion(rc.Name, terrain))
	}

	world := domain.NewGameWorld(regions...)

	// 2. Общие настройки
	difficulty, ok := domain.ParseDifficulty(wc.Difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", wc.Difficulty)
	}
	world.Difficulty = difficulty
	world.Spawn = wc.Spawn.Block()
	world.AgentDefaults = ac.Attributes
	world.NavSpeed = ac.MoveSpeed

	// 3. Фикстуры (игроки, мобы, предметы)
	for i, fc := range wc.Fixtures {
		e, err := buildFixture(fc)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		world.AddEntity(fc.Region, e)
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "world_builder",
		"regions":    len(world.Regions),
		"fixtures":   len(wc.Fixtures),
		"difficulty": world.Difficulty.String(),
		"spawn":      world.Spawn,
	}).Info("World built")

	return world, nil
}

func buildFixture(fc config.FixtureConfig) (*domain.Entity, error) {
	pos := domain.Vec3{X: fc.X, Y: fc.Y, Z: fc.Z}

	switch domain.ParseEntityKind(fc.Kind) {
	case domain.KindPlayer:
		mode := domain.GameModeSurvival
		if fc.GameMode != "" {
			parsed, ok := domain.ParseGameMode(fc.GameMode)
			if !ok {
				return nil, fmt.Errorf("unknown game mode %q", fc.GameMode)
			}
			mode = parsed
		}
		return domain.NewPlayer(fc.Name, pos, mode), nil

	case domain.KindMob:
		maxHP := fc.MaxHealth
		if maxHP <= 0 {
			maxHP = domain.DefaultMaxHealth
		}
		return domain.NewMob(fc.Name, pos, maxHP), nil

	case domain.KindItem:
		return domain.NewItem(fc.Name, pos), nil

	default:
		return nil, fmt.Errorf("unsupported kind %q", fc.Kind)
	}
}
