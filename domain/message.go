// Package domain contains core concepts of the chat bot.
// This file defines the inbound message envelope and its classification.
// Messages are immutable once classified.
package domain

import "time"

// ContentKind is the transport's content type tag.
type ContentKind string

const (
	KindText     ContentKind = "chat"
	KindImage    ContentKind = "image"
	KindAudio    ContentKind = "audio"
	KindVoice    ContentKind = "ptt"
	KindVideo    ContentKind = "video"
	KindDocument ContentKind = "document"
	KindSticker  ContentKind = "sticker"
)

// RawMessage is the opaque event produced by the transport.
type RawMessage struct {
	ID        string
	From      string // sender side routing field
	To        string // recipient side routing field
	Author    string // who sent it within a group, empty in private chats
	Kind      ContentKind
	Body      string
	Timestamp time.Time
}

// Message is a classified inbound message. TextMessage is the only variant.
type Message interface {
	Author() Address
	Chat() Address
	InGroup() bool
	Kind() ContentKind
	Raw() RawMessage
	sealed()
}

type envelope struct {
	author  Address
	chat    Address
	inGroup bool
	raw     RawMessage
}

func (e envelope) Author() Address   { return e.author }
func (e envelope) Chat() Address     { return e.chat }
func (e envelope) InGroup() bool     { return e.inGroup }
func (e envelope) Raw() RawMessage   { return e.raw }
func (e envelope) Kind() ContentKind { return e.raw.Kind }
func (envelope) sealed()             {}

// TextMessage is a plain text message.
type TextMessage struct {
	envelope
	Text string
}

// NewTextMessage builds a TextMessage directly, bypassing Classify.
// inGroup is derived from the chat address.
func NewTextMessage(author, chat Address, text string) TextMessage {
	return TextMessage{
		envelope: envelope{
			author:  author,
			chat:    chat,
			inGroup: chat.IsGroup(),
			raw:     RawMessage{From: chat.String(), Author: groupAuthor(author, chat), Kind: KindText, Body: text},
		},
		Text: text,
	}
}

func groupAuthor(author, chat Address) string {
	if chat.IsGroup() {
		return author.String()
	}
	return ""
}

// ChatKindOf returns the permission tier the message belongs to.
func ChatKindOf(m Message) ChatKind {
	if m.InGroup() {
		return GroupChat
	}
	return PrivateChat
}

// Classify wraps a raw transport message into a typed Message.
// It returns ok=false when the chat or the in-group author is not an
// address, or when the content kind is not supported.
func Classify(raw RawMessage) (Message, bool) {
	routing := raw.From
	if routing == "" {
		routing = raw.To
	}
	chat, ok := ParseAddress(routing)
	if !ok {
		return nil, false
	}

	inGroup := chat.IsGroup()
	author := chat
	if inGroup {
		author, ok = ParseAddress(raw.Author)
		if !ok || !author.IsUser() {
			return nil, false
		}
	}

	env := envelope{author: author, chat: chat, inGroup: inGroup, raw: raw}
	switch raw.Kind {
	case KindText:
		return TextMessage{envelope: env, Text: raw.Body}, true
	default:
		return nil, false
	}
}
