package domain

import "strings"

// EntityKind - вид сущности в мире
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindAgent              // Управляемый командами аватар
	KindPlayer             // Живой игрок (в стенде - фикстура из конфига)
	KindMob                // Обычное живое существо
	KindItem               // Неживой объект (выпавший предмет, стойка)
)

var kindStringToType = map[string]EntityKind{
	"AGENT":  KindAgent,
	"PLAYER": KindPlayer,
	"MOB":    KindMob,
	"ITEM":   KindItem,
}

var kindTypeToString = map[EntityKind]string{
	KindAgent:  "AGENT",
	KindPlayer: "PLAYER",
	KindMob:    "MOB",
	KindItem:   "ITEM",
}

// ParseEntityKind конвертирует строку из конфига в EntityKind
func ParseEntityKind(s string) EntityKind {
	if val, ok := kindStringToType[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return val
	}
	return KindUnknown
}

func (k EntityKind) String() string {
	if val, ok := kindTypeToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// Vec3 - точная позиция в мире (ноги сущности)
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BlockPos - целочисленные координаты блока
type BlockPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}
