package actions

import (
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/api"
)

// NewRegistry создает реестр с набором действий по умолчанию.
// Владелец - точка входа процесса, которая передает его обоим фронтендам.
func NewRegistry() *handlers.Registry {
	r := handlers.NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults регистрирует стандартные методы (перезаписывая одноименные)
func RegisterDefaults(r *handlers.Registry) {
	// Навигация
	r.RegisterFunc(api.MethodMoveTo, handlers.WithAgent(HandleMoveTo))
	r.RegisterFunc(api.MethodStop, handlers.WithAgent(HandleStop))

	// Взгляд
	r.RegisterFunc(api.MethodLookAt, handlers.WithAgent(HandleLookAt))
	r.RegisterFunc(api.MethodLookAtBlock, handlers.WithAgent(HandleLookAtBlock))
	r.RegisterFunc(api.MethodLookClear, handlers.WithAgent(HandleLookClear))

	// Бой
	r.RegisterFunc(api.MethodAttack, handlers.WithAgent(HandleAttack))

	// Общение
	r.RegisterFunc(api.MethodChat, handlers.WithAgent(HandleChat))

	// Жизненный цикл
	r.RegisterFunc(api.MethodSpawn, HandleSpawn)
	r.RegisterFunc(api.MethodDismiss, HandleDismiss)
	r.RegisterFunc(api.MethodSetModel, handlers.WithAgent(HandleSetModel))

	// Восприятие
	r.RegisterFunc(api.MethodPerceptionSelf, handlers.WithAgent(HandlePerceptionSelf))
	r.RegisterFunc(api.MethodPerceptionAgents, HandlePerceptionAgents)
}
