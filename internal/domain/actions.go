package domain

import "strings"

// Difficulty - уровень сложности мира
type Difficulty uint8

const (
	DifficultyPeaceful Difficulty = iota
	DifficultyEasy
	DifficultyNormal
	DifficultyHard
)

var difficultyStringToType = map[string]Difficulty{
	"PEACEFUL": DifficultyPeaceful,
	"EASY":     DifficultyEasy,
	"NORMAL":   DifficultyNormal,
	"HARD":     DifficultyHard,
}

var difficultyTypeToString = map[Difficulty]string{
	DifficultyPeaceful: "PEACEFUL",
	DifficultyEasy:     "EASY",
	DifficultyNormal:   "NORMAL",
	DifficultyHard:     "HARD",
}

// ParseDifficulty конвертирует строку конфига в Difficulty.
// Второй результат false, если строка не распознана.
func ParseDifficulty(s string) (Difficulty, bool) {
	val, ok := difficultyStringToType[strings.ToUpper(strings.TrimSpace(s))]
	return val, ok
}

func (d Difficulty) String() string {
	if val, ok := difficultyTypeToString[d]; ok {
		return val
	}
	return "UNKNOWN"
}

// GameMode - режим игры живого игрока
type GameMode uint8

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

var gameModeStringToType = map[string]GameMode{
	"SURVIVAL":  GameModeSurvival,
	"CREATIVE":  GameModeCreative,
	"ADVENTURE": GameModeAdventure,
	"SPECTATOR": GameModeSpectator,
}

var gameModeTypeToString = map[GameMode]string{
	GameModeSurvival:  "SURVIVAL",
	GameModeCreative:  "CREATIVE",
	GameModeAdventure: "ADVENTURE",
	GameModeSpectator: "SPECTATOR",
}

func ParseGameMode(s string) (GameMode, bool) {
	val, ok := gameModeStringToType[strings.ToUpper(strings.TrimSpace(s))]
	return val, ok
}

func (m GameMode) String() string {
	if val, ok := gameModeTypeToString[m]; ok {
		return val
	}
	return "UNKNOWN"
}

// Invulnerable - в этих режимах игрока нельзя ранить
func (m GameMode) Invulnerable() bool {
	return m == GameModeCreative || m == GameModeSpectator
}

// AttackOutcome - итог одной попытки атаки.
// Имена уходят клиенту в поле "result", менять их нельзя.
type AttackOutcome uint8

const (
	AttackSuccess AttackOutcome = iota
	AttackTargetDead
	AttackOutOfRange
	AttackTargetInvulnerable
	AttackPeaceful
	AttackMissed
)

var attackOutcomeToString = map[AttackOutcome]string{
	AttackSuccess:            "SUCCESS",
	AttackTargetDead:         "TARGET_DEAD",
	AttackOutOfRange:         "OUT_OF_RANGE",
	AttackTargetInvulnerable: "TARGET_INVULNERABLE",
	AttackPeaceful:           "PEACEFUL",
	AttackMissed:             "MISSED",
}

func (a AttackOutcome) String() string {
	if val, ok := attackOutcomeToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
