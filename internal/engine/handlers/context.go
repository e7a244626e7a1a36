package handlers

import (
	"avatar-server/internal/domain"
)

// Context передает хендлеру доступ к миру на время одного вызова.
// Создается заново на каждый вызов, мир не принадлежит контексту.
// Прав доступа здесь нет: их проверяет тот, кто вызывает Dispatch.
type Context struct {
	World *domain.GameWorld

	// Source - откуда пришел вызов (tcp, ws, console), только для логов
	Source string
}

func NewContext(world *domain.GameWorld, source string) *Context {
	return &Context{World: world, Source: source}
}

// FindAgent ищет агента по имени во всех регионах.
// Имена не уникальны: возвращается первое совпадение.
func (c *Context) FindAgent(name string) *domain.Entity {
	for _, region := range c.World.Regions {
		for _, e := range region.Entities {
			if e.IsAgent() && e.Name == name {
				return e
			}
		}
	}
	return nil
}

// ListAgents - снимок всех агентов на момент вызова
func (c *Context) ListAgents() []*domain.Entity {
	return c.World.Agents()
}

// ResolveEntity ищет любую сущность по UUID. Кривой UUID - это nil, а не ошибка.
func (c *Context) ResolveEntity(id string) *domain.Entity {
	uid, ok := domain.ParseID(id)
	if !ok {
		return nil
	}
	return c.World.FindEntity(uid)
}

// SpawnAnchor - точка спавна мира по умолчанию (центр блока)
func (c *Context) SpawnAnchor() domain.Vec3 {
	return c.World.Spawn.Center()
}
