package domain

// Параметры мира
const (
	// GroundLevel - верхний твердый слой плоского мира
	GroundLevel = 63
	MinBuildY   = 0
	MaxBuildY   = 319

	// WorldBorder - предел |x| и |z|; дальше координаты не принимаются
	WorldBorder = 30_000_000

	DefaultTickRate = 20

	// DefaultRegion - имя основного измерения, куда спавнятся агенты
	DefaultRegion = "overworld"
)

// Тайминги в тиках
const (
	RegenIntervalTicks = 80 // +1 HP раз в 4 секунды
	HurtCooldownTicks  = 10 // Пока цель "мигает", повторный удар не проходит
	SwingDurationTicks = 6
	DeathLingerTicks   = 20 // После этого мертвое тело убирается из мира
)

// Атрибуты агента по умолчанию
const (
	DefaultMaxHealth        = 20.0
	DefaultMoveSpeed        = 0.3
	DefaultAttackDamage     = 1.0
	DefaultInteractionRange = 3.0
	DefaultFollowRange      = 48.0

	EyeHeight = 1.62
)

// DefaultModelLabel - что показываем, когда у агента нет своей модели
const DefaultModelLabel = "Steve (default)"

// DefaultAgentName - имя агента до того, как ему выдали свое
const DefaultAgentName = "Agent"
