// Package transport connects the bot to the messaging network through a
// websocket gateway that owns the actual network login.
package transport

import (
	"chatbot/contract"
	"chatbot/domain"
	"chatbot/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

const (
	writeWait          = 10 * time.Second
	maxFrameSize       = 1 << 20 // 1MB
	sessionTokenFile   = "session/token"
	defaultRequestWait = 30 * time.Second
)

var _ contract.Transport = (*GatewayClient)(nil)

// GatewayClient is a websocket client speaking the gateway protocol.
// Requests are correlated with responses by id; inbound messages are
// exposed through Events, which is closed when the connection ends.
//
// The gateway issues a session token after a successful login; it is kept
// under authDir so the next process can resume without a new login code.
type GatewayClient struct {
	url            string
	token          string
	authDir        string
	requestTimeout time.Duration
	log            *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	writeMu   sync.Mutex

	pending   map[string]chan Frame
	pendingMu sync.Mutex

	events     chan domain.RawMessage
	closing    chan struct{}
	done       chan struct{}
	readerDone chan struct{}
	closeOnce  sync.Once
}

func NewGatewayClient(log *slog.Logger, url, token, authDir string, eventBuffer int) *GatewayClient {
	return &GatewayClient{
		url:            url,
		token:          token,
		authDir:        authDir,
		requestTimeout: defaultRequestWait,
		log:            log,
		pending:        make(map[string]chan Frame),
		events:         make(chan domain.RawMessage, eventBuffer),
		closing:        make(chan struct{}),
		done:           make(chan struct{}),
		readerDone:     make(chan struct{}),
	}
}

// WithRequestTimeout overrides how long a request waits for its response.
func (c *GatewayClient) WithRequestTimeout(timeout time.Duration) *GatewayClient {
	c.requestTimeout = timeout
	return c
}

func (c *GatewayClient) Events() <-chan domain.RawMessage {
	return c.events
}

func (c *GatewayClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect dials the gateway and presents the stored session, if any.
func (c *GatewayClient) Connect(ctx context.Context) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	conn.SetReadLimit(maxFrameSize)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)

	session, err := c.readSessionToken()
	if err != nil {
		c.log.Warn("Could not read stored session token", "error", err)
	}
	if session == "" {
		c.log.Info("No stored session, the gateway will ask for a login")
	}

	if _, err := c.request(ctx, MethodConnect, ConnectParams{Token: c.token, Session: session}); err != nil {
		_ = c.Close()
		return fmt.Errorf("connect: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	color.Green.Println("🟢 Connected!")
	c.log.Info("Connected to gateway", "url", c.url)
	return nil
}

// Close tears the connection down and waits for the reader to stop, so
// that session files it writes are flushed when Close returns.
func (c *GatewayClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closing)
		c.mu.Lock()
		conn := c.conn
		c.connected = false
		c.mu.Unlock()

		if conn == nil {
			close(c.done)
			close(c.events)
			return
		}

		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = conn.Close()

		<-c.readerDone
	})
	return err
}

func (c *GatewayClient) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.done)
		close(c.events)
		close(c.readerDone)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Gateway connection lost", "error", err)
			} else {
				c.log.Debug("Gateway read loop ended", "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Debug("Dropping malformed frame", "error", err)
			continue
		}

		switch frame.Type {
		case frameResponse:
			c.resolve(frame)
		case frameEvent:
			c.handleEvent(frame)
		}
	}
}

func (c *GatewayClient) resolve(frame Frame) {
	c.pendingMu.Lock()
	ch, ok := c.pending[frame.ID]
	if ok {
		delete(c.pending, frame.ID)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- frame
	}
}

func (c *GatewayClient) handleEvent(frame Frame) {
	switch frame.Event {
	case EventMessage:
		var payload MessagePayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			c.log.Debug("Dropping malformed message event", "error", err)
			return
		}
		select {
		case c.events <- payload.toRaw():
		case <-c.closing:
		}
	case EventLoginCode:
		var payload LoginCodePayload
		if err := json.Unmarshal(frame.Payload, &payload); err == nil {
			color.Yellow.Printf("Login code received: %s\n", payload.Code)
		}
	case EventSessionToken:
		var payload SessionTokenPayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			return
		}
		if err := c.writeSessionToken(payload.Token); err != nil {
			c.log.Error("Could not store session token", "error", err)
			return
		}
		c.log.Info("Session token stored")
	default:
		c.log.Debug("Ignoring gateway event", "event", frame.Event)
	}
}

// request sends a frame and waits for the response with the same id.
func (c *GatewayClient) request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, errors.ErrNotConnected
	}

	id := uuid.NewString()
	ch := make(chan Frame, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	data, err := json.Marshal(Frame{Type: frameRequest, ID: id, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", method, err)
	}

	timer := time.NewTimer(c.requestTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, fmt.Errorf("%w: %s: %s", errors.ErrGatewayRejected, resp.Error.Code, resp.Error.Message)
		}
		if !resp.OK {
			return nil, fmt.Errorf("%w: %s", errors.ErrGatewayRejected, method)
		}
		return resp.Payload, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", errors.ErrRequestTimeout, method)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, errors.ErrConnectionClosed
	}
}

// Reply sends text back into the message's chat, quoting it.
func (c *GatewayClient) Reply(ctx context.Context, message domain.Message, text string) error {
	_, err := c.request(ctx, MethodReply, ReplyParams{
		Chat:     message.Chat().String(),
		QuotedID: message.Raw().ID,
		Text:     text,
	})
	return err
}

func (c *GatewayClient) FetchGroupRole(ctx context.Context, chat, participant domain.Address) (domain.GroupRole, error) {
	payload, err := c.request(ctx, MethodGroupRole, GroupRoleParams{Chat: chat.String(), Participant: participant.String()})
	if err != nil {
		return domain.GroupRole{}, err
	}
	var role GroupRolePayload
	if err := json.Unmarshal(payload, &role); err != nil {
		return domain.GroupRole{}, fmt.Errorf("decode group role: %w", err)
	}
	return domain.GroupRole{IsAdmin: role.IsAdmin, IsSuperAdmin: role.IsSuperAdmin}, nil
}

func (c *GatewayClient) tokenPath() string {
	return filepath.Join(c.authDir, filepath.FromSlash(sessionTokenFile))
}

func (c *GatewayClient) readSessionToken() (string, error) {
	data, err := os.ReadFile(c.tokenPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *GatewayClient) writeSessionToken(token string) error {
	path := c.tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}
