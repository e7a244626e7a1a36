package api

// Методы по умолчанию. Пространство имен плоское, расширяется регистрацией.
const (
	MethodMoveTo      = "agent.moveTo"
	MethodStop        = "agent.stop"
	MethodLookAt      = "agent.lookAt"
	MethodLookAtBlock = "agent.lookAtBlock"
	MethodLookClear   = "agent.lookClear"
	MethodAttack      = "agent.attack"
	MethodChat        = "agent.chat"
	MethodSpawn       = "agent.spawn"
	MethodDismiss     = "agent.dismiss"
	MethodSetModel    = "agent.setModel"

	MethodPerceptionSelf   = "perception.self"
	MethodPerceptionAgents = "perception.agents"
)
