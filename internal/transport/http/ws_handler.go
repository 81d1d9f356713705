package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/giveaway-server/internal/config"
	"github.com/vovakirdan/giveaway-server/internal/core"
	"github.com/vovakirdan/giveaway-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub               *core.Hub
	log               *zerolog.Logger
	originPatterns    []string
	insecureOrigins   bool
	readLimit         int64
	clientBuffer      int
	messagesPerMinute int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	h := &WSHandler{
		hub:               hub,
		log:               logger,
		readLimit:         cfg.Chat.MaxMessageBytes,
		clientBuffer:      cfg.Chat.ClientBuffer,
		messagesPerMinute: cfg.Chat.MessagesPerMinute,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			h.insecureOrigins = true
			continue
		}
		h.originPatterns = append(h.originPatterns, origin)
	}
	return h
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.insecureOrigins,
		OriginPatterns:     h.originPatterns,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	client := core.NewClient(uuid.NewString(), h.clientBuffer)
	if err := h.hub.RegisterClient(client); err != nil {
		conn.Close(websocket.StatusGoingAway, core.ReasonShutdown)
		return
	}
	h.log.Info().Str("client_id", client.ID).Str("remote", r.RemoteAddr).Msg("ws client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		h.writeLoop(ctx, conn, client)
	}()

	err = h.readLoop(ctx, conn, client)
	h.hub.UnregisterClient(client)
	cancel()
	<-writeDone

	if err != nil && !isNormalClose(err) {
		h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
	}
	h.log.Info().Str("client_id", client.ID).Msg("ws client disconnected")
	conn.Close(websocket.StatusNormalClosure, "closing")
}

// readLoop turns inbound frames into hub commands. Malformed frames get an
// error reply and the connection stays open.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.messagesPerMinute)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			if err := h.writeError(ctx, conn, core.ErrCodeBadRequest, "invalid json"); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			if err := h.writeError(ctx, conn, protoErr.Code, protoErr.Msg); err != nil {
				return err
			}
			continue
		}

		if !limiter.allow() {
			if err := h.writeError(ctx, conn, core.ErrCodeRateLimited, "too many messages"); err != nil {
				return err
			}
			continue
		}

		if err := h.hub.Submit(ctx, client, cmd); err != nil {
			return err
		}
	}
}

// writeLoop drains the client's event queue. When the hub closes the queue
// the connection is closed with a status that matches the reason.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				h.closeForReason(conn, client.CloseReason())
				return
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.log.Warn().Err(err).Str("client_id", client.ID).Msg("write ws event")
				}
				conn.CloseNow()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *WSHandler) closeForReason(conn *websocket.Conn, reason string) {
	switch reason {
	case core.ReasonSlowConsumer:
		conn.Close(websocket.StatusPolicyViolation, reason)
	case core.ReasonShutdown:
		conn.Close(websocket.StatusGoingAway, reason)
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Event: proto.EventError,
		Error: &proto.Error{Code: code, Msg: msg},
	})
}

func isNormalClose(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, core.ErrHubStopped) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return true
	}
	return false
}
