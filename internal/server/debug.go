package server

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine"
	"avatar-server/internal/network"
	"avatar-server/pkg/api"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// snapshotTimeout - сколько ждать поток симуляции ради снимка
const snapshotTimeout = 2 * time.Second

// DebugHandler предоставляет доступ к внутреннему состоянию движка.
// Мир читается только внутри задачи потока симуляции.
type DebugHandler struct {
	Service *engine.Service
	Hub     *network.Hub
}

func NewDebugHandler(s *engine.Service, hub *network.Hub) *DebugHandler {
	return &DebugHandler{Service: s, Hub: hub}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/world", h.handleWorld)
	mux.HandleFunc("/debug/agents", h.handleAgents)
	mux.HandleFunc("/debug/sessions", h.handleSessions)
	mux.HandleFunc("/debug/chat", h.handleChat)
	mux.HandleFunc("/debug/methods", h.handleMethods)
}

// /debug/world - сводка: тик, сложность, регионы, агенты
func (h *DebugHandler) handleWorld(w http.ResponseWriter, r *http.Request) {
	view, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, view)
}

// /debug/agents - только агенты
func (h *DebugHandler) handleAgents(w http.ResponseWriter, r *http.Request) {
	view, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, view.Agents)
}

// /debug/sessions - открытые подключения (TCP и websocket)
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Hub.Snapshot())
}

// /debug/chat - последние строки чата
func (h *DebugHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Chat().Lines())
}

// /debug/methods - зарегистрированные методы.
// Реестр меняется только при старте, поэтому читаем его без задачи.
func (h *DebugHandler) handleMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Registry().Methods())
}

func (h *DebugHandler) snapshot(w http.ResponseWriter, r *http.Request) (api.WorldView, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	defer cancel()

	var view api.WorldView
	err := h.Service.Call(ctx, func(world *domain.GameWorld) {
		view = engine.BuildWorldView(world)
	})
	if err != nil {
		http.Error(w, "simulation unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return api.WorldView{}, false
	}
	return view, true
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локальных дашбордов)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
