package handlers

import (
	"avatar-server/pkg/logger"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DispatchObserver получает итог каждого вызова (метрики)
type DispatchObserver interface {
	ObserveDispatch(method, code string, elapsed time.Duration)
}

// Registry сопоставляет имя метода и хендлер.
// Заполняется при старте, дальше только читается; вызывать только из потока симуляции.
type Registry struct {
	handlers map[string]Handler
	observer DispatchObserver
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register добавляет или перезаписывает метод
func (r *Registry) Register(method string, h Handler) {
	r.handlers[method] = h
}

// RegisterFunc - то же для обычной функции
func (r *Registry) RegisterFunc(method string, f HandlerFunc) {
	r.handlers[method] = f
}

func (r *Registry) HasMethod(method string) bool {
	_, ok := r.handlers[method]
	return ok
}

// Methods - отсортированный список методов
func (r *Registry) Methods() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetObserver подключает наблюдателя (nil отключает)
func (r *Registry) SetObserver(o DispatchObserver) {
	r.observer = o
}

// Dispatch вызывает хендлер синхронно. Паника внутри хендлера не выходит наружу:
// она превращается в INTERNAL_ERROR, а стек пишется в лог.
func (r *Registry) Dispatch(method string, ctx *Context, params Params) (result Result) {
	start := time.Now()
	if params == nil {
		params = Params{}
	}
	source := ""
	if ctx != nil {
		source = ctx.Source
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "registry",
				"method":    method,
				"source":    source,
				"panic":     rec,
			}).Errorf("Action threw: %s", debug.Stack())
			result = Fail(CodeInternalError, panicMessage(rec))
		}
		if r.observer != nil {
			code := "OK"
			if !result.Success() {
				code = result.Code()
			}
			r.observer.ObserveDispatch(method, code, time.Since(start))
		}
	}()

	h, ok := r.handlers[method]
	if !ok {
		available := "Available: " + strings.Join(r.Methods(), ", ")
		// Список и в сообщении (его видит консоль без подсказки), и в hint
		return FailHint(CodeMethodNotFound, "Unknown method: "+method+". "+available, available)
	}
	return h.Execute(ctx, params)
}

func panicMessage(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
