package handlers

// Handler - контракт любого действия (agent.moveTo, perception.self, ...).
// Хендлер не держит состояния и сообщает об ошибках только через Result.
type Handler interface {
	Execute(ctx *Context, params Params) Result
}

// HandlerFunc позволяет использовать обычную функцию как Handler
type HandlerFunc func(ctx *Context, params Params) Result

func (f HandlerFunc) Execute(ctx *Context, params Params) Result {
	return f(ctx, params)
}
