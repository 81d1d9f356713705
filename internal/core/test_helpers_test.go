package core

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, wait time.Duration) {
	t.Helper()

	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(wait):
	}
}

func startHub(t *testing.T, opts Options) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	hub := NewHub(opts, nil)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func mustRegister(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	if err := hub.RegisterClient(c); err != nil {
		t.Fatalf("register %s: %v", c.ID, err)
	}
}

func mustSend(t *testing.T, hub *Hub, c *Client, draft Draft) {
	t.Helper()
	if err := hub.Submit(context.Background(), c, &Command{Kind: CommandSendMessage, Draft: draft}); err != nil {
		t.Fatalf("submit from %s: %v", c.ID, err)
	}
}

func sendN(t *testing.T, hub *Hub, c *Client, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		mustSend(t, hub, c, Draft{User: "sender", Text: fmt.Sprintf("msg %d", i)})
	}
}
