package domain

import "github.com/google/uuid"

// ChatSink получает каждое сообщение, разосланное в мир
type ChatSink func(msg ChatMessage)

// GameWorld - весь мир: упорядоченный набор регионов и общие настройки
type GameWorld struct {
	Regions    []*Region
	Difficulty Difficulty
	Spawn      BlockPos
	Tick       int64

	// Параметры новых агентов и множитель скорости навигации
	AgentDefaults Attributes
	NavSpeed      float64

	Chat ChatSink
}

// NewGameWorld создает мир. Первый регион считается основным.
func NewGameWorld(regions ...*Region) *GameWorld {
	if len(regions) == 0 {
		regions = []*Region{NewRegion(DefaultRegion, nil)}
	}
	return &GameWorld{
		Regions:    regions,
		Difficulty: DifficultyNormal,
		Spawn:      BlockPos{X: 0, Y: GroundLevel + 1, Z: 0},

		AgentDefaults: DefaultAttributes(),
		NavSpeed:      1.0,
	}
}

// Primary - основной регион (туда ставится точка спавна)
func (w *GameWorld) Primary() *Region {
	return w.Regions[0]
}

// Region ищет регион по имени
func (w *GameWorld) Region(name string) *Region {
	for _, r := range w.Regions {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// RegionOf возвращает регион, в котором живет сущность
func (w *GameWorld) RegionOf(e *Entity) *Region {
	if r := w.Region(e.Region); r != nil {
		return r
	}
	return w.Primary()
}

// FindEntity ищет сущность по ID во всех регионах
func (w *GameWorld) FindEntity(id uuid.UUID) *Entity {
	for _, r := range w.Regions {
		if e := r.Get(id); e != nil {
			return e
		}
	}
	return nil
}

// AddEntity добавляет сущность в регион по имени (пустое имя - основной)
func (w *GameWorld) AddEntity(region string, e *Entity) {
	r := w.Region(region)
	if r == nil {
		r = w.Primary()
	}
	r.Add(e)
}

// RemoveEntity убирает сущность из ее региона
func (w *GameWorld) RemoveEntity(e *Entity) {
	if r := w.Region(e.Region); r != nil {
		r.Remove(e.ID)
		return
	}
	e.Removed = true
}

// Agents возвращает всех агентов: регионы по порядку, внутри в порядке добавления
func (w *GameWorld) Agents() []*Entity {
	result := make([]*Entity, 0)
	for _, r := range w.Regions {
		result = append(result, r.Agents()...)
	}
	return result
}

// Broadcast рассылает сообщение всем
func (w *GameWorld) Broadcast(sender, text string) {
	if w.Chat == nil {
		return
	}
	w.Chat(ChatMessage{Tick: w.Tick, Sender: sender, Text: text})
}
