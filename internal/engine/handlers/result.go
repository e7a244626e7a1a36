package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Result - единый ответ любого действия: либо успех с данными, либо ошибка с кодом.
// Нулевое значение - успех с пустыми данными.
type Result struct {
	failed  bool
	data    map[string]any
	code    string
	message string
	hint    string
	hasHint bool
}

// Ok - успех без данных
func Ok() Result {
	return Result{}
}

// OkWith - успех с данными
func OkWith(data map[string]any) Result {
	return Result{data: data}
}

// OkValue - успех с одним полем
func OkValue(key string, value any) Result {
	return Result{data: map[string]any{key: value}}
}

// Fail - ошибка без подсказки
func Fail(code, message string) Result {
	return Result{failed: true, code: code, message: message}
}

// FailHint - ошибка с подсказкой для клиента
func FailHint(code, message, hint string) Result {
	return Result{failed: true, code: code, message: message, hint: hint, hasHint: true}
}

func (r Result) Success() bool   { return !r.failed }
func (r Result) Code() string    { return r.code }
func (r Result) Message() string { return r.message }

// Hint возвращает подсказку, если она есть
func (r Result) Hint() (string, bool) { return r.hint, r.hasHint }

// Data никогда не возвращает nil
func (r Result) Data() map[string]any {
	if r.data == nil {
		return map[string]any{}
	}
	return r.data
}

// Wire-формы. Порядок полей фиксирован структурой.
type okWire struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

type failWire struct {
	Success bool    `json:"success"`
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Hint    *string `json:"hint,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.failed {
		return marshalCompact(okWire{Success: true, Data: r.Data()})
	}
	w := failWire{Error: r.code, Message: r.message}
	if r.hasHint {
		hint := r.hint
		w.Hint = &hint
	}
	return marshalCompact(w)
}

func (r *Result) UnmarshalJSON(raw []byte) error {
	var wire struct {
		Success *bool          `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
		Message string         `json:"message"`
		Hint    *string        `json:"hint"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	if wire.Success == nil {
		return errors.New("result: missing 'success' field")
	}
	if *wire.Success {
		*r = OkWith(wire.Data)
		return nil
	}
	if wire.Hint != nil {
		*r = FailHint(wire.Error, wire.Message, *wire.Hint)
	} else {
		*r = Fail(wire.Error, wire.Message)
	}
	return nil
}

// Readable - строка для консоли: "OK", JSON данных или "CODE: msg (hint)"
func (r Result) Readable() string {
	if !r.failed {
		if len(r.data) == 0 {
			return "OK"
		}
		raw, err := marshalCompact(r.data)
		if err != nil {
			// Такие данные в сеть не уйдут, поэтому и в консоли это не успех
			return CodeInternalError + ": " + err.Error()
		}
		return string(raw)
	}
	text := r.code + ": " + r.message
	if r.hasHint {
		text += " (" + r.hint + ")"
	}
	return text
}

// marshalCompact не экранирует <, > и &: в чате это обычные символы
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(buf.String(), "\n")), nil
}
