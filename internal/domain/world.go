package domain

import "github.com/google/uuid"

// Region - одно измерение мира со своим ландшафтом и сущностями
type Region struct {
	Name     string
	Terrain  *Terrain
	Entities []*Entity

	// Быстрый поиск по ID
	registry map[uuid.UUID]*Entity
}

func NewRegion(name string, terrain *Terrain) *Region {
	if terrain == nil {
		terrain = NewFlatTerrain(GroundLevel)
	}
	return &Region{
		Name:     name,
		Terrain:  terrain,
		Entities: make([]*Entity, 0),
		registry: make(map[uuid.UUID]*Entity),
	}
}

// Add регистрирует сущность в регионе
func (r *Region) Add(e *Entity) {
	if _, exists := r.registry[e.ID]; exists {
		return
	}
	e.Region = r.Name
	e.Removed = false
	r.registry[e.ID] = e
	r.Entities = append(r.Entities, e)
}

// Get ищет сущность по ID
func (r *Region) Get(id uuid.UUID) *Entity {
	return r.registry[id]
}

// Remove убирает сущность из региона и помечает ее удаленной
func (r *Region) Remove(id uuid.UUID) *Entity {
	e, ok := r.registry[id]
	if !ok {
		return nil
	}
	delete(r.registry, id)
	for i, other := range r.Entities {
		if other == e {
			r.Entities = append(r.Entities[:i], r.Entities[i+1:]...)
			break
		}
	}
	e.Removed = true
	return e
}

// Agents возвращает агентов региона в порядке добавления
func (r *Region) Agents() []*Entity {
	result := make([]*Entity, 0)
	for _, e := range r.Entities {
		if e.IsAgent() {
			result = append(result, e)
		}
	}
	return result
}
