package network

import (
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/api"
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

// Client - синхронный клиент протокола: один запрос в полете за раз.
// Используется avatarctl, ботом и тестами.
type Client struct {
	mu       sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
	maxFrame int
	nextID   int64
}

// Dial подключается к серверу
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		maxFrame: DefaultMaxFrame,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Auth проходит рукопожатие. Неверный токен возвращается как *api.Error.
func (c *Client) Auth(ctx context.Context, token string) error {
	resp, err := c.Do(ctx, api.MethodAuth, map[string]any{"token": token})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

// Call вызывает метод реестра. Ошибки протокола возвращаются как *api.Error,
// доменные ошибки - как неуспешный Result без error.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (handlers.Result, error) {
	resp, err := c.Do(ctx, method, params)
	if err != nil {
		return handlers.Result{}, err
	}
	if resp.Error != nil {
		return handlers.Result{}, resp.Error
	}

	var res handlers.Result
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		return handlers.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

// Do отправляет запрос с новым id и ждет ответ с тем же id
func (c *Client) Do(ctx context.Context, method string, params map[string]any) (api.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := strconv.FormatInt(c.nextID, 10)
	req := api.Request{ID: id, Method: method, Params: params}
	if err := req.Validate(); err != nil {
		return api.Response{}, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return api.Response{}, err
	}
	if err := c.writeRaw(ctx, payload); err != nil {
		return api.Response{}, err
	}

	for {
		resp, err := c.readResponse(ctx)
		if err != nil {
			return api.Response{}, err
		}
		if resp.ID != nil && *resp.ID == id {
			return resp, nil
		}
		// Ответ на чужой запрос (например, после таймаута) - пропускаем
	}
}

// SendRaw отправляет произвольный кадр (для тестов протокола)
func (c *Client) SendRaw(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeRaw(ctx, payload)
}

// ReadResponse читает следующий ответ без сопоставления id
func (c *Client) ReadResponse(ctx context.Context) (api.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readResponse(ctx)
}

func (c *Client) writeRaw(ctx context.Context, payload []byte) error {
	if err := c.conn.SetWriteDeadline(deadline(ctx)); err != nil {
		return err
	}
	return WriteFrame(c.conn, payload)
}

func (c *Client) readResponse(ctx context.Context) (api.Response, error) {
	if err := c.conn.SetReadDeadline(deadline(ctx)); err != nil {
		return api.Response{}, err
	}
	frame, err := ReadFrame(c.reader, c.maxFrame)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return api.Response{}, errors.Join(ctxErr, err)
		}
		return api.Response{}, err
	}

	var resp api.Response
	if err := json.Unmarshal(frame, &resp); err != nil {
		return api.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// deadline: без дедлайна в ctx ждем бесконечно
func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Time{}
}
