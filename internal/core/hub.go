package core

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultUser replaces an empty display name.
	DefaultUser = "Anonymous"
	// DefaultTimeLayout renders the hour:minute display timestamp.
	DefaultTimeLayout = "15:04"

	// ReasonSlowConsumer is recorded on clients dropped for a full event queue.
	ReasonSlowConsumer = "slow consumer"
	// ReasonShutdown is recorded on clients still connected when the hub stops.
	ReasonShutdown = "server shutting down"

	inboxSize = 256
)

// Options tunes hub behaviour. Zero values fall back to package defaults.
type Options struct {
	HistoryLimit   int
	DefaultUser    string
	AllowEmptyText bool
	Location       *time.Location
	TimeLayout     string
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.DefaultUser == "" {
		o.DefaultUser = DefaultUser
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.TimeLayout == "" {
		o.TimeLayout = DefaultTimeLayout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Hub owns the chat history and the set of connected clients. All state is
// touched only from the Run goroutine; other goroutines talk to it through
// RegisterClient, Submit and UnregisterClient.
type Hub struct {
	opts    Options
	log     *zerolog.Logger
	history *History
	room    *Room
	seq     uint64

	inbox     chan op
	connected atomic.Int64

	// mu guards closed. Senders hold it for reading while they push into
	// inbox, so once shutdown holds it every accepted op is in inbox.
	mu       sync.RWMutex
	closed   bool
	stopping chan struct{}
	stopped  chan struct{}
}

// NewHub creates a new chat hub instance.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	opts = opts.withDefaults()
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		opts:    opts,
		log:     logger,
		history: NewHistory(opts.HistoryLimit),
		room:    NewRoom(),
		inbox:    make(chan op, inboxSize),
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run processes hub operations one at a time until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return nil
		case o := <-h.inbox:
			h.apply(o)
		}
	}
}

func (h *Hub) apply(o op) {
	switch o.kind {
	case opRegister:
		h.addClient(o.client)
	case opUnregister:
		h.removeClient(o.client, "")
	case opCommand:
		h.handleCommand(o.client, o.cmd)
	}
}

// RegisterClient adds c to the broadcast domain. The first event c receives is
// the history backfill.
func (h *Hub) RegisterClient(c *Client) error {
	return h.enqueue(context.Background(), op{kind: opRegister, client: c})
}

// UnregisterClient removes c and closes its event queue. Safe to call more than once.
func (h *Hub) UnregisterClient(c *Client) {
	_ = h.enqueue(context.Background(), op{kind: opUnregister, client: c})
}

// Submit hands a command from c to the hub. It blocks while the inbox is full.
func (h *Hub) Submit(ctx context.Context, c *Client, cmd *Command) error {
	if cmd == nil {
		return nil
	}
	return h.enqueue(ctx, op{kind: opCommand, client: c, cmd: cmd})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.connected.Load())
}

func (h *Hub) enqueue(ctx context.Context, o op) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubStopped
	}

	select {
	case h.inbox <- o:
		return nil
	case <-h.stopping:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) addClient(c *Client) {
	if !h.room.AddClient(c) {
		return
	}
	h.connected.Add(1)
	h.log.Debug().Str("client_id", c.ID).Int("backfill", h.history.Len()).Msg("client registered")

	h.sendTo(c, &Event{Kind: EventHistory, Messages: h.history.Recent(h.history.Cap())})
}

func (h *Hub) removeClient(c *Client, reason string) {
	if !h.room.RemoveClient(c) {
		return
	}
	h.connected.Add(-1)
	c.closeReason = reason
	close(c.done)
	close(c.Events)

	if reason == ReasonSlowConsumer {
		h.log.Warn().Str("client_id", c.ID).Msg("dropping slow client")
		return
	}
	h.log.Debug().Str("client_id", c.ID).Str("reason", reason).Msg("client unregistered")
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	// Commands can still be queued for a client the hub already dropped.
	if !h.room.Has(c) {
		return
	}

	switch cmd.Kind {
	case CommandSendMessage:
		h.handleSend(c, cmd.Draft)
	default:
		h.sendTo(c, &Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "unknown command")})
	}
}

func (h *Hub) handleSend(c *Client, draft Draft) {
	if !h.opts.AllowEmptyText && strings.TrimSpace(draft.Text) == "" {
		h.sendTo(c, &Event{Kind: EventError, Error: coreError(ErrCodeEmptyText, ErrEmptyText.Error())})
		return
	}

	msg := h.newMessage(draft)
	h.history.Append(msg)

	for _, slow := range h.room.Broadcast(&Event{Kind: EventNewMessage, Message: msg}) {
		h.removeClient(slow, ReasonSlowConsumer)
	}
}

func (h *Hub) newMessage(draft Draft) Message {
	now := h.opts.Now()
	h.seq++

	user := draft.User
	if strings.TrimSpace(user) == "" {
		user = h.opts.DefaultUser
	}

	return Message{
		Seq:       h.seq,
		ID:        now.UnixMilli(),
		User:      user,
		Avatar:    draft.Avatar,
		Text:      draft.Text,
		Timestamp: now.In(h.opts.Location).Format(h.opts.TimeLayout),
		CreatedAt: now,
	}
}

// sendTo queues an event for a single client, dropping the client when its queue is full.
func (h *Hub) sendTo(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.removeClient(c, ReasonSlowConsumer)
	}
}

// shutdown applies every op accepted before the stop, so no registered client
// is left without a closed event queue, then removes all clients.
func (h *Hub) shutdown() {
	close(h.stopping)
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	for drained := false; !drained; {
		select {
		case o := <-h.inbox:
			h.apply(o)
		default:
			drained = true
		}
	}

	for c := range h.room.clients {
		h.removeClient(c, ReasonShutdown)
	}
}
