package network

import (
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/api"
	"avatar-server/pkg/logger"
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Dispatcher передает вызов в поток симуляции.
// reply вызывается из потока симуляции и не должен блокировать.
type Dispatcher interface {
	Submit(method string, params handlers.Params, source string, reply func(handlers.Result))
}

// Observer - метрики протокола. Все методы вызываются из сетевых горутин.
type Observer interface {
	ConnectionOpened(transport string)
	ConnectionClosed(transport string)
	ProtocolError(code int)
	AuthFailed()
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened(string) {}
func (nopObserver) ConnectionClosed(string) {}
func (nopObserver) ProtocolError(int)       {}
func (nopObserver) AuthFailed()             {}

// SendFunc отправляет готовый JSON клиенту. Должна быть безопасной
// для вызова из любой горутины и никогда не блокировать.
type SendFunc func(payload []byte)

// Session - протокол одного подключения: рукопожатие и запросы JSON-RPC.
// Не знает про транспорт: TCP и websocket отдают ей уже выделенные кадры.
// Состояние одно - authenticated; сбрасывается только новым подключением.
type Session struct {
	ID          string
	Transport   string
	Remote      string
	ConnectedAt time.Time

	token      string
	dispatcher Dispatcher
	send       SendFunc
	observer   Observer

	authenticated atomic.Bool
	requests      atomic.Int64
	log           *logrus.Entry
}

func NewSession(transport, remote, token string, d Dispatcher, send SendFunc, o Observer) *Session {
	if o == nil {
		o = nopObserver{}
	}
	id := uuid.NewString()
	return &Session{
		ID:          id,
		Transport:   transport,
		Remote:      remote,
		ConnectedAt: time.Now(),
		token:       token,
		dispatcher:  d,
		send:        send,
		observer:    o,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "session",
			"transport": transport,
			"remote":    remote,
			"session":   id,
		}),
	}
}

func (s *Session) Authenticated() bool { return s.authenticated.Load() }

// View - снимок для /debug/sessions
func (s *Session) View() api.SessionView {
	return api.SessionView{
		ID:            s.ID,
		Transport:     s.Transport,
		Remote:        s.Remote,
		Authenticated: s.authenticated.Load(),
		ConnectedAt:   s.ConnectedAt.UnixMilli(),
		Requests:      s.requests.Load(),
	}
}

// HandleFrame обрабатывает один кадр. Вызывается из горутины чтения по порядку прихода кадров.
// Ошибки протокола отвечаются сразу; доменные вызовы уходят в поток симуляции,
// и ответ на них придет позже, когда поток до них доберется.
func (s *Session) HandleFrame(payload []byte) {
	s.requests.Add(1)

	if !utf8.Valid(payload) {
		s.fail(nil, api.ErrCodeParse, "Parse error: payload is not valid UTF-8")
		return
	}

	var req api.RawRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.fail(nil, api.ErrCodeParse, "Parse error: "+err.Error())
		return
	}
	if !isObject(payload) {
		s.fail(nil, api.ErrCodeParse, "Parse error: request is not a JSON object")
		return
	}

	id := api.IDString(req.ID)
	method, ok := api.MethodName(req.Method)
	if !ok {
		s.fail(id, api.ErrCodeInvalidRequest, "Missing 'method' field")
		return
	}
	params := handlers.ParseParams(req.Params)

	if method == api.MethodAuth {
		s.handleAuth(id, params)
		return
	}

	if !s.authenticated.Load() {
		s.fail(id, api.ErrCodeNotAuthenticated, "Not authenticated. Send 'auth' first.")
		return
	}

	s.dispatcher.Submit(method, params, s.Transport, func(res handlers.Result) {
		raw, err := api.Encode(res)
		if err != nil {
			// На каждый запрос обязан уйти ответ с тем же id
			s.log.WithError(err).WithField("method", method).Error("Failed to encode result")
			raw, _ = api.Encode(handlers.Fail(handlers.CodeInternalError, "Failed to encode result: "+err.Error()))
		}
		s.write(api.NewResult(id, raw))
	})
}

func (s *Session) handleAuth(id *string, params handlers.Params) {
	token, err := params.StringOr("token", "")
	if err == nil {
		err = api.AuthParams{Token: token}.Validate()
	}

	if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		s.observer.AuthFailed()
		s.log.Warn("Auth rejected")
		s.fail(id, api.ErrCodeInvalidToken, "Invalid token")
		return
	}

	s.authenticated.Store(true)
	s.log.Info("Client authenticated")

	raw, _ := api.Encode(api.AuthResult{Success: true})
	s.write(api.NewResult(id, raw))
}

// isObject отсекает "null", который json.Unmarshal в структуру молча пропускает
func isObject(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func (s *Session) fail(id *string, code int, message string) {
	s.observer.ProtocolError(code)
	s.log.WithField("code", code).Debug(message)
	s.write(api.NewError(id, code, message))
}

func (s *Session) write(resp api.Response) {
	payload, err := api.Encode(resp)
	if err != nil {
		s.log.WithError(err).Error("Failed to encode response")
		return
	}
	s.send(payload)
}
