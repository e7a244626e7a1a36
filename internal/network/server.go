package network

import (
	"avatar-server/pkg/logger"
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// TransportTCP - имя транспорта в логах, метриках и Context.Source
const TransportTCP = "tcp"

const (
	writeWait        = 10 * time.Second
	acceptBackoff    = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Options - параметры TCP сервера
type Options struct {
	Addr           string
	Token          string
	MaxConnections int           // 0 - без ограничения
	MaxFrameBytes  int           // 0 - DefaultMaxFrame
	OutboundQueue  int           // Кадров в очереди на запись одного клиента
	KeepAlive      time.Duration // 0 - значение ОС по умолчанию
}

// Server принимает TCP подключения. Кадры: 4 байта длины big endian + JSON в UTF-8.
// Сетевые горутины мир не трогают: все вызовы уходят через Dispatcher.
type Server struct {
	opts       Options
	dispatcher Dispatcher
	hub        *Hub
	observer   Observer

	mu       sync.Mutex
	listener net.Listener
	stopped  bool
	wg       sync.WaitGroup
}

func NewServer(opts Options, d Dispatcher, hub *Hub, o Observer) *Server {
	if opts.MaxFrameBytes <= 0 {
		opts.MaxFrameBytes = DefaultMaxFrame
	}
	if opts.OutboundQueue <= 0 {
		opts.OutboundQueue = 256
	}
	if hub == nil {
		hub = NewHub()
	}
	if o == nil {
		o = nopObserver{}
	}
	return &Server{opts: opts, dispatcher: d, hub: hub, observer: o}
}

// Start открывает порт и запускает прием подключений в фоне
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errors.New("network: server stopped")
	}
	if s.listener != nil {
		return errors.New("network: server already started")
	}

	lc := net.ListenConfig{KeepAlive: s.opts.KeepAlive}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	if s.opts.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.opts.MaxConnections)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop(ln)

	logger.Log.WithFields(logrus.Fields{
		"component":       "tcp",
		"addr":            ln.Addr().String(),
		"max_connections": s.opts.MaxConnections,
		"max_frame":       s.opts.MaxFrameBytes,
	}).Info("Agent TCP server started")
	return nil
}

// Addr - фактический адрес (полезно при порте 0). nil, если сервер не запущен.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop закрывает сначала порт, потом подключения, и ждет их горутины.
// Можно звать повторно и без Start.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return
	}
	if err := ln.Close(); err != nil {
		logger.Log.WithError(err).Warn("failed to close tcp listener")
	}
	s.hub.CloseTransport(TransportTCP)
	s.wg.Wait()

	logger.Log.WithField("component", "tcp").Info("Agent TCP server stopped")
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	backoff := acceptBackoff
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Log.WithError(err).Warn("tcp accept failed")
			time.Sleep(backoff)
			if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			continue
		}
		backoff = acceptBackoff

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			conn.Close()
			return
		}
		// Регистрация под блокировкой: Stop не пропустит подключение
		c := newConnection(s, conn)
		s.wg.Add(2)
		s.mu.Unlock()

		go c.writePump()
		go c.readPump()
	}
}

// connection - одно TCP подключение: горутина чтения и горутина записи
type connection struct {
	server  *Server
	conn    net.Conn
	session *Session
	out     chan []byte
	done    chan struct{}
	once    sync.Once
	log     *logrus.Entry
}

func newConnection(s *Server, conn net.Conn) *connection {
	c := &connection{
		server: s,
		conn:   conn,
		out:    make(chan []byte, s.opts.OutboundQueue),
		done:   make(chan struct{}),
	}
	remote := conn.RemoteAddr().String()
	c.session = NewSession(TransportTCP, remote, s.opts.Token, s.dispatcher, c.send, s.observer)
	c.log = logger.Log.WithFields(logrus.Fields{
		"component": "tcp",
		"remote":    remote,
		"session":   c.session.ID,
	})

	s.hub.Register(c.session, c.close)
	s.observer.ConnectionOpened(TransportTCP)
	c.log.Info("Client connected")
	return c
}

// send кладет ответ в очередь записи. Не блокирует: зовется и из потока симуляции.
// Клиент, который не успевает читать, отключается.
func (c *connection) send(payload []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.out <- payload:
	default:
		c.log.Warn("Outbound queue full, dropping client")
		c.close()
	}
}

func (c *connection) close() {
	c.once.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.log.WithError(err).Debug("close failed")
		}
		c.server.hub.Unregister(c.session.ID)
		c.server.observer.ConnectionClosed(TransportTCP)
		c.log.Info("Client disconnected")
	})
}

// readPump режет поток на кадры и по порядку отдает их сессии
func (c *connection) readPump() {
	defer c.server.wg.Done()
	defer c.close()

	reader := bufio.NewReader(c.conn)
	for {
		payload, err := ReadFrame(reader, c.server.opts.MaxFrameBytes)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			case errors.Is(err, ErrFrameTooLarge):
				c.log.WithError(err).Warn("Oversized frame, closing connection")
			default:
				c.log.WithError(err).Debug("read failed")
			}
			return
		}
		c.session.HandleFrame(payload)
	}
}

// writePump - единственное место, где пишется в сокет
func (c *connection) writePump() {
	defer c.server.wg.Done()
	defer c.close()

	writer := bufio.NewWriter(c.conn)
	for {
		select {
		case payload := <-c.out:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Debug("failed to set write deadline")
			}
			if err := WriteFrame(writer, payload); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
			// Все, что уже лежит в очереди, уходит одним flush
			if len(c.out) == 0 {
				if err := writer.Flush(); err != nil {
					c.log.WithError(err).Debug("flush failed")
					return
				}
			}
		case <-c.done:
			return
		}
	}
}
