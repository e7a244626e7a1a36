package engine

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/systems"
	"avatar-server/pkg/api"
)

// BuildWorldView собирает сводку мира для оператора.
// Вызывать только из потока симуляции.
func BuildWorldView(w *domain.GameWorld) api.WorldView {
	view := api.WorldView{
		Tick:       w.Tick,
		Difficulty: w.Difficulty.String(),
		Regions:    make([]string, 0, len(w.Regions)),
		Agents:     make([]api.AgentView, 0),
	}
	for _, r := range w.Regions {
		view.Regions = append(view.Regions, r.Name)
	}
	for _, a := range w.Agents() {
		view.Agents = append(view.Agents, toAgentView(a))
	}
	return view
}

// toAgentView конвертирует агента в DTO
func toAgentView(e *domain.Entity) api.AgentView {
	pos := e.Pos.Round1()
	view := api.AgentView{
		ID:         e.ID.String(),
		Name:       e.Name,
		Region:     e.Region,
		Pos:        api.PosView{X: pos.X, Y: pos.Y, Z: pos.Z},
		Health:     e.CurrentHealth(),
		MaxHealth:  e.MaxHealth(),
		Alive:      e.IsAlive(),
		Navigating: systems.IsNavigating(e),
	}

	if e.Agent != nil {
		view.Model = e.Agent.Model
		if t := e.Agent.LookTarget; t != nil && !t.Removed {
			view.LookTarget = t.Name
		}
		if b := e.Agent.LookBlock; b != nil {
			view.LookBlock = &api.PosView{X: float64(b.X), Y: float64(b.Y), Z: float64(b.Z)}
		}
	}
	return view
}
