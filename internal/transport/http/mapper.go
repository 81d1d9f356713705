package http

import (
	"encoding/json"

	"github.com/vovakirdan/giveaway-server/internal/core"
	"github.com/vovakirdan/giveaway-server/internal/proto"
	"github.com/vovakirdan/giveaway-server/internal/store"
)

func inboundToCommand(in proto.Inbound) (*core.Command, *proto.Error) {
	switch in.Event {
	case proto.EventSendMessage:
		if len(in.Data) == 0 {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "data is required"}
		}
		var data proto.SendMessageData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid send_message payload"}
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Draft: core.Draft{
				User:   data.User,
				Avatar: data.Avatar,
				Text:   data.Text,
			},
		}, nil
	case "":
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "event is required"}
	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownEvent, Msg: "unknown event: " + in.Event}
	}
}

func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventHistory:
		return proto.Outbound{Event: proto.EventPreviousMessages, Data: toProtoMessages(ev.Messages)}
	case core.EventNewMessage:
		return proto.Outbound{Event: proto.EventNewMessage, Data: toProtoMessage(ev.Message)}
	case core.EventError:
		out := proto.Outbound{Event: proto.EventError}
		if ev.Error != nil {
			out.Error = &proto.Error{Code: ev.Error.Code, Msg: ev.Error.Message}
		}
		return out
	default:
		return proto.Outbound{
			Event: proto.EventError,
			Error: &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown event kind " + ev.Kind.String()},
		}
	}
}

func toProtoMessage(m core.Message) proto.Message {
	return proto.Message{
		ID:        m.ID,
		Seq:       m.Seq,
		User:      m.User,
		Avatar:    m.Avatar,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
}

// toProtoMessages never returns nil so an empty backfill encodes as [].
func toProtoMessages(msgs []core.Message) []proto.Message {
	out := make([]proto.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toProtoMessage(m))
	}
	return out
}

func commentResponse(c *store.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		GiveawayID: c.GiveawayID,
		UserName:   c.UserName,
		AvatarURL:  c.AvatarURL,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}
