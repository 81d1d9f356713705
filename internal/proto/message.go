package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const (
	// EventSendMessage is sent by a client to post a chat message.
	EventSendMessage = "send_message"

	// EventPreviousMessages carries the history backfill right after connect.
	EventPreviousMessages = "previous_messages"
	// EventNewMessage carries one accepted message to every client.
	EventNewMessage = "new_message"
	// EventError reports a rejected inbound event to its sender only.
	EventError = "error"
)

// SendMessageData is a chat message from the client. User and Avatar are optional.
type SendMessageData struct {
	User   string `json:"user,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Text   string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Message is the wire shape of a chat message.
type Message struct {
	ID        int64  `json:"id"`
	Seq       uint64 `json:"seq"`
	User      string `json:"user"`
	Avatar    string `json:"avatar"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
