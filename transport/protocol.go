package transport

import (
	"chatbot/domain"
	"encoding/json"
	"time"
)

// Frame types.
const (
	frameRequest  = "req"
	frameResponse = "res"
	frameEvent    = "event"
)

// Methods understood by the gateway.
const (
	MethodConnect   = "connect"
	MethodReply     = "message.reply"
	MethodGroupRole = "group.role"
)

// Events pushed by the gateway.
const (
	EventMessage      = "message"
	EventLoginCode    = "login.code"
	EventSessionToken = "session.token"
)

// Frame is the JSON envelope exchanged over the websocket.
type Frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  any             `json:"params,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *FrameError     `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
}

type FrameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConnectParams struct {
	Token   string `json:"token,omitempty"`
	Session string `json:"session,omitempty"`
}

type ReplyParams struct {
	Chat     string `json:"chat"`
	QuotedID string `json:"quotedId,omitempty"`
	Text     string `json:"text"`
}

type GroupRoleParams struct {
	Chat        string `json:"chat"`
	Participant string `json:"participant"`
}

type GroupRolePayload struct {
	IsAdmin      bool `json:"isAdmin"`
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

type LoginCodePayload struct {
	Code string `json:"code"`
}

type SessionTokenPayload struct {
	Token string `json:"token"`
}

// MessagePayload is an inbound message as the gateway sends it.
type MessagePayload struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Author    string `json:"author,omitempty"`
	Type      string `json:"type"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

func (p MessagePayload) toRaw() domain.RawMessage {
	raw := domain.RawMessage{
		ID:     p.ID,
		From:   p.From,
		To:     p.To,
		Author: p.Author,
		Kind:   domain.ContentKind(p.Type),
		Body:   p.Body,
	}
	if p.Timestamp > 0 {
		raw.Timestamp = time.Unix(p.Timestamp, 0).UTC()
	}
	return raw
}
