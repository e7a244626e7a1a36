package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Version - значение поля "jsonrpc" в каждом ответе
const Version = "2.0"

// MethodAuth - единственный метод, доступный до аутентификации
const MethodAuth = "auth"

// Коды ошибок уровня протокола (в духе JSON-RPC)
const (
	ErrCodeParse            = -32700
	ErrCodeInvalidRequest   = -32600
	ErrCodeNotAuthenticated = -32000
	ErrCodeInvalidToken     = -32001
)

// --- КЛИЕНТ -> СЕРВЕР ---

// RawRequest - запрос в том виде, в каком он пришел по сети.
// Поля оставлены сырыми: сервер сам решает, что считать отсутствием.
type RawRequest struct {
	ID     json.RawMessage `json:"id"`
	Method json.RawMessage `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Request - запрос, который собирает клиент
type Request struct {
	ID     string         `json:"id,omitempty"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// AuthParams - параметры метода auth
type AuthParams struct {
	Token string `json:"token"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Response - ответ на один запрос. Заполнено ровно одно из Result / Error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *string         `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error - ошибка уровня протокола
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// AuthResult - тело успешного ответа на auth
type AuthResult struct {
	Success bool `json:"success"`
}

// NewResult собирает успешный ответ
func NewResult(id *string, result json.RawMessage) Response {
	return Response{JSONRPC: Version, ID: id, Result: result}
}

// NewError собирает ответ с ошибкой протокола
func NewError(id *string, code int, message string) Response {
	return Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: message}}
}

// IDString приводит "id" запроса к строке. null и отсутствие дают nil,
// число или другой JSON отдается своим текстом.
func IDString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		text := string(raw)
		return &text
	}
	text := buf.String()
	return &text
}

// MethodName достает имя метода. false, если поля нет, оно null или не строка.
func MethodName(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Encode сериализует ответ без экранирования <, > и & (строки чата уходят как есть)
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(buf.String(), "\n")), nil
}
