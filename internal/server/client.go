package server

import (
	"avatar-server/internal/network"
	"avatar-server/pkg/logger"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// TransportWS - имя транспорта websocket
const TransportWS = "ws"

// Настройки WebSocket
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между websocket и Session.
// Одно текстовое сообщение - один кадр того же протокола, что и по TCP.
type Client struct {
	Conn    *websocket.Conn
	Session *network.Session
	Send    chan []byte

	server *Server
	done   chan struct{}
	once   sync.Once
	log    *logrus.Entry
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	queue := s.opts.OutboundQueue
	if queue <= 0 {
		queue = 256
	}
	c := &Client{
		Conn:   conn,
		Send:   make(chan []byte, queue),
		server: s,
		done:   make(chan struct{}),
	}
	remote := conn.RemoteAddr().String()
	c.Session = network.NewSession(TransportWS, remote, s.opts.Token, s.engine, c.enqueue, s.observer)
	c.log = logger.Log.WithFields(logrus.Fields{
		"component": "ws",
		"remote":    remote,
		"session":   c.Session.ID,
	})
	return c
}

// enqueue не блокирует: ответы кладет поток симуляции
func (c *Client) enqueue(payload []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.Send <- payload:
	default:
		c.log.Warn("Outbound queue full, dropping client")
		c.close()
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.server.hub.Unregister(c.Session.ID)
		if c.server.observer != nil {
			c.server.observer.ConnectionClosed(TransportWS)
		}
		c.log.Info("Client disconnected")
	})
}

// readPump читает кадры от клиента
func (c *Client) readPump() {
	defer c.server.wsWG.Done()
	defer c.close()

	if c.server.opts.MaxFrameBytes > 0 {
		c.Conn.SetReadLimit(int64(c.server.opts.MaxFrameBytes))
	}
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		kind, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("WS read error")
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		c.Session.HandleFrame(payload)
	}
}

// writePump отправляет ответы клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.server.wsWG.Done()
		c.close()
	}()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Upgrade error")
		return
	}

	// Регистрация и wsWG.Add под тем же mu, что и закрытие в Shutdown:
	// иначе подключение проскочит мимо CloseTransport и wsWG.Wait
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		conn.Close()
		return
	}
	client := NewClient(s, conn)
	s.hub.Register(client.Session, client.close)
	s.wsWG.Add(2)
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ConnectionOpened(TransportWS)
	}
	client.log.Info("Client connected")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}
