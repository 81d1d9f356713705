package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/giveaway-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// run connects two clients, sends one message from the first and checks
// both receive it.
func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	user := flag.String("user", "tester", "display name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sender, err := dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer sender.Close(websocket.StatusNormalClosure, "bye")

	watcher, err := dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer watcher.Close(websocket.StatusNormalClosure, "bye")

	payload, err := json.Marshal(proto.SendMessageData{User: *user, Text: *text})
	if err != nil {
		return fmt.Errorf("marshal send_message: %w", err)
	}
	if err := wsjson.Write(ctx, sender, proto.Inbound{Event: proto.EventSendMessage, Data: payload}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	for name, conn := range map[string]*websocket.Conn{"sender": sender, "watcher": watcher} {
		msg, err := expectNewMessage(ctx, conn)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if msg.Text != *text || msg.User != *user {
			return fmt.Errorf("%s: unexpected message %+v", name, msg)
		}
		log.Printf("%s received seq=%d at %s", name, msg.Seq, msg.Timestamp)
	}

	log.Printf("smoke test passed")
	return nil
}

// dial connects and consumes the history backfill, which also proves the
// client is registered.
func dial(ctx context.Context, addr string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	var in envelope
	if err := wsjson.Read(ctx, conn, &in); err != nil {
		conn.CloseNow()
		return nil, fmt.Errorf("read backfill: %w", err)
	}
	if in.Event != proto.EventPreviousMessages {
		conn.CloseNow()
		return nil, fmt.Errorf("expected %s, got %s", proto.EventPreviousMessages, in.Event)
	}
	var msgs []proto.Message
	if err := json.Unmarshal(in.Data, &msgs); err != nil {
		conn.CloseNow()
		return nil, fmt.Errorf("decode backfill: %w", err)
	}
	log.Printf("connected, %d messages in history", len(msgs))
	return conn, nil
}

func expectNewMessage(ctx context.Context, conn *websocket.Conn) (proto.Message, error) {
	var in envelope
	if err := wsjson.Read(ctx, conn, &in); err != nil {
		return proto.Message{}, fmt.Errorf("read: %w", err)
	}
	if in.Event == proto.EventError && in.Error != nil {
		return proto.Message{}, fmt.Errorf("server error %s: %s", in.Error.Code, in.Error.Msg)
	}
	if in.Event != proto.EventNewMessage {
		return proto.Message{}, fmt.Errorf("expected %s, got %s", proto.EventNewMessage, in.Event)
	}
	var msg proto.Message
	if err := json.Unmarshal(in.Data, &msg); err != nil {
		return proto.Message{}, fmt.Errorf("decode: %w", err)
	}
	return msg, nil
}
