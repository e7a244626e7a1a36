package domain

import "github.com/google/uuid"

// AgentRecord - сохраняемое состояние одного агента
type AgentRecord struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Model  string    `json:"model"`
	Region string    `json:"region"`
	Pos    Vec3      `json:"pos"`
	Yaw    float64   `json:"yaw"`
	Pitch  float64   `json:"pitch"`
	Health float64   `json:"health"`
}

// RosterSnapshot - снимок всех агентов на момент сохранения
type RosterSnapshot struct {
	Tick   int64         `json:"tick"`
	Agents []AgentRecord `json:"agents"`
}

// RecordOf снимает запись с живого агента
func RecordOf(e *Entity) AgentRecord {
	rec := AgentRecord{
		ID:     e.ID,
		Name:   e.Name,
		Region: e.Region,
		Pos:    e.Pos,
		Yaw:    e.Yaw,
		Pitch:  e.Pitch,
		Health: e.CurrentHealth(),
	}
	if e.Agent != nil {
		rec.Model = e.Agent.Model
	}
	return rec
}

// Restore пересобирает агента из записи
func (r AgentRecord) Restore(attrs Attributes) *Entity {
	e := NewAgent(r.Name, r.Pos, attrs)
	if r.ID != uuid.Nil {
		e.ID = r.ID
	}
	e.Yaw = r.Yaw
	e.Pitch = r.Pitch
	e.Agent.Model = r.Model
	if r.Health > 0 && r.Health <= e.Health.MaxHP {
		e.Health.HP = r.Health
	}
	e.Region = r.Region
	return e
}
