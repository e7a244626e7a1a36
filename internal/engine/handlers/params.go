package handlers

import (
	"avatar-server/internal/domain"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)

// ParamError - проблема с конкретным ключом
type ParamError struct {
	Key     string
	Kind    error // ErrMissingParam или ErrInvalidParam
	Message string
}

func (e *ParamError) Error() string { return e.Message }
func (e *ParamError) Unwrap() error { return e.Kind }

func missing(key string) error {
	return &ParamError{Key: key, Kind: ErrMissingParam, Message: fmt.Sprintf("Parameter '%s' is required", key)}
}

func invalid(key, want string) error {
	return &ParamError{Key: key, Kind: ErrInvalidParam, Message: fmt.Sprintf("Parameter '%s' must be %s", key, want)}
}

// Params - нетипизированный набор параметров вызова. Никогда не nil после ParseParams.
// Каждый хендлер сам проверяет и конвертирует нужные ключи.
type Params map[string]any

// ParseParams разбирает "params" запроса. Все, что не объект, дает пустой набор.
func ParseParams(raw json.RawMessage) Params {
	params := Params{}
	if len(raw) == 0 {
		return params
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return params
	}
	return Params(obj)
}

// Has - ключ есть и он не null
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// HasAll - все ключи есть
func (p Params) HasAll(keys ...string) bool {
	for _, k := range keys {
		if !p.Has(k) {
			return false
		}
	}
	return true
}

// String читает строку. Числа и bool отдаются своим текстом.
func (p Params) String(key string) (string, error) {
	if !p.Has(key) {
		return "", missing(key)
	}
	switch v := p[key].(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", invalid(key, "a string")
	}
}

// RequiredString - как String, но пустая строка тоже считается отсутствием
func (p Params) RequiredString(key string) (string, error) {
	s, err := p.String(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", missing(key)
	}
	return s, nil
}

// StringOr возвращает def, если ключа нет
func (p Params) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// Float читает конечное число. Строка с числом тоже подходит.
func (p Params) Float(key string) (float64, error) {
	if !p.Has(key) {
		return 0, missing(key)
	}
	var (
		f   float64
		err error
	)
	switch v := p[key].(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		err = ErrInvalidParam
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(key, "a number")
	}
	return f, nil
}

// Coord читает координату. Значения за границей мира отклоняются,
// иначе округление позиции уходит в Inf и ответ нельзя закодировать.
func (p Params) Coord(key string) (float64, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if math.Abs(f) > domain.WorldBorder {
		return 0, invalid(key, fmt.Sprintf("within ±%d", domain.WorldBorder))
	}
	return f, nil
}

// Int читает целое. Дробные значения отклоняются.
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		var pe *ParamError
		if errors.As(err, &pe) && errors.Is(pe.Kind, ErrInvalidParam) {
			return 0, invalid(key, "an integer")
		}
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalid(key, "an integer")
	}
	return int(f), nil
}

// FailFromError превращает ошибку параметра в Result
func FailFromError(err error) Result {
	var pe *ParamError
	if errors.As(err, &pe) {
		if errors.Is(pe.Kind, ErrMissingParam) {
			return Fail(CodeMissingParam, pe.Message)
		}
		return Fail(CodeInvalidParam, pe.Message)
	}
	return Fail(CodeInternalError, err.Error())
}
