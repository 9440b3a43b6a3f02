package wsrpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = 2 * pingPeriod
)

// ErrClosed is returned by calls on a closed connection.
var ErrClosed = errors.New("rpc connection closed")

// Error is a JSON-RPC error object returned by the peer.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type message struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      *uint64             `json:"id,omitempty"`
	Method  string              `json:"method,omitempty"`
	Params  any                 `json:"params,omitempty"`
	Result  jsoniter.RawMessage `json:"result,omitempty"`
	Error   *Error              `json:"error,omitempty"`
}

type incoming struct {
	ID     *uint64             `json:"id"`
	Method string              `json:"method"`
	Params jsoniter.RawMessage `json:"params"`
	Result jsoniter.RawMessage `json:"result"`
	Error  *Error              `json:"error"`
}

// NotificationHandler receives the raw params of a server notification.
type NotificationHandler func(params []byte)

// Client is a JSON-RPC 2.0 client over one websocket connection. Calls may be
// issued concurrently; each notification is handled on its own goroutine.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	nextID   uint64
	pending  map[uint64]chan incoming
	handlers map[string]NotificationHandler

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Dial opens a connection to url and starts its read loop.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	c := &Client{
		conn:     conn,
		logger:   logger,
		pending:  make(map[uint64]chan incoming),
		handlers: make(map[string]NotificationHandler),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// Handle registers h for notifications of method, replacing any previous handler.
func (c *Client) Handle(method string, h NotificationHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[method] = h
}

// Call sends a request and decodes its result into result, which may be nil.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	reply := make(chan incoming, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(message{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	case resp := <-reply:
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection. Calling it more than once is safe.
func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	<-c.done
	return c.closeErr
}

func (c *Client) write(msg message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *Client) readLoop() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("RPC connection closed unexpectedly", zap.Error(err))
			}
			c.shutdown(err)
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("Dropping malformed RPC message", zap.ByteString("message", data), zap.Error(err))
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg incoming) {
	if msg.ID != nil && msg.Method == "" {
		c.mu.Lock()
		reply, ok := c.pending[*msg.ID]
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("Dropping response for unknown request", zap.Uint64("id", *msg.ID))
			return
		}
		reply <- msg
		return
	}

	c.mu.Lock()
	h, ok := c.handlers[msg.Method]
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("No handler for notification", zap.String("method", msg.Method))
		return
	}
	// handlers may issue calls, which need the read loop running
	go h(msg.Params)
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.shutdown(err)
				return
			}
		}
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
}
